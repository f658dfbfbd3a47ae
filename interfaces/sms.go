package interfaces

import "context"

// SMSSender delivers one message to one phone number.
type SMSSender interface {
	Send(ctx context.Context, phoneNumber, message string) error
}
