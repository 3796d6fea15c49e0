package communication

// RabbitMQConfig groups what is needed to publish the exporter output
type RabbitMQConfig struct {
	URL                       string                    `yaml:"url"`
	ExchangeDeclarationConfig ExchangeDeclarationConfig `yaml:"exchange_declaration_config"`
	PublishingConfig          PublishingConfig          `yaml:"publishing_config"`
}

// ExchangeDeclarationConfig contains the parameters to declare a RabbitMQ exchange
type ExchangeDeclarationConfig struct {
	Name        string `yaml:"name"`
	Type        string `yaml:"type"`
	Durable     bool   `yaml:"durable"`
	AutoDeleted bool   `yaml:"auto_deleted"`
	Internal    bool   `yaml:"internal"`
	NoWait      bool   `yaml:"no_wait"`
}

// PublishingConfig config use it for publishing messages in a RabbitMQ exchange
type PublishingConfig struct {
	Exchange    string `yaml:"exchange"`
	ContentType string `yaml:"content_type"`
}

// WithDefaults fills the publishing fields left empty from the exchange declaration
func (c RabbitMQConfig) WithDefaults() RabbitMQConfig {
	if c.ExchangeDeclarationConfig.Type == "" {
		c.ExchangeDeclarationConfig.Type = "topic"
	}
	if c.PublishingConfig.Exchange == "" {
		c.PublishingConfig.Exchange = c.ExchangeDeclarationConfig.Name
	}
	if c.PublishingConfig.ContentType == "" {
		c.PublishingConfig.ContentType = "application/json"
	}
	return c
}
