package config

// NotifyConfig configures where fetch failures are reported besides the log
type NotifyConfig struct {
	Slack SlackConfig `yaml:"slack"`
}

// SlackConfig enables the Slack webhook notifier when WebhookURL is set
type SlackConfig struct {
	WebhookURL string `yaml:"webhook_url"`
	Channel    string `yaml:"channel"`
}
