package cron_config

type Config struct {
	// Heartbeat check, every minute
	CronScheduleHeartbeat string `env:"CRON_SCHEDULE_HEARTBEAT" envDefault:"0 * * * * *"`
	// Stuck pending event recovery sweep, every 5 minutes
	CronScheduleEventRecovery string `env:"CRON_SCHEDULE_EVENT_RECOVERY" envDefault:"0 */5 * * * *"`
}
