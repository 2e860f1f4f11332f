package rabbitmq

import "fairpass/pkg/utilities"

type RabbimqConfigJson struct {
	Enabled          bool                           `json:"enabled" env:"ENABLED"`
	Host             string                         `json:"host" env:"HOST"`
	Port             int                            `json:"port" env:"PORT"`
	User             string                         `json:"user" env:"USER"`
	Password         string                         `json:"password" env:"PASSWORD"`
	VHost            string                         `json:"vhost" env:"VHOST"`
	PublishersConfig []RabbitmqPublishersConfigJson `json:"publishers"`
	ConsumersConfig  []RabbitmqConsumerConfigJson   `json:"consumers"`
}

type RabbitmqConfig struct {
	Enabled          bool
	Host             string
	Port             int
	User             string
	Password         string
	VHost            string
	PublishersConfig []RabbitmqPublishersConfig
	ConsumersConfig  []RabbitmqConsumerConfig
}

func (rcj RabbimqConfigJson) ConvertToDomain() RabbitmqConfig {
	return RabbitmqConfig{
		Enabled:  rcj.Enabled,
		Host:     utilities.Ternary(rcj.Host == "", "rabbitmq", rcj.Host),
		Port:     utilities.Ternary(rcj.Port == 0, 5672, rcj.Port),
		User:     rcj.User,
		Password: rcj.Password,
		VHost:    utilities.Ternary(rcj.VHost == "", "/", rcj.VHost),
		PublishersConfig: utilities.ConvertJsonArrayToDomain[
			RabbitmqPublishersConfigJson,
			RabbitmqPublishersConfig,
		](rcj.PublishersConfig),
		ConsumersConfig: utilities.ConvertJsonArrayToDomain[
			RabbitmqConsumerConfigJson,
			RabbitmqConsumerConfig,
		](rcj.ConsumersConfig),
	}
}

type RabbitmqPublishersConfigJson struct {
	PublisherAlias string `json:"publisher_alias"`
	Exchange       string `json:"exchange"`
	ExchangeType   string `json:"exchange_type"`
	RoutingKey     string `json:"routing_key"`
}

type RabbitmqPublishersConfig struct {
	PublisherAlias PublisherAlias
	Exchange       string
	ExchangeType   string
	RoutingKey     string
}

func (rpcj RabbitmqPublishersConfigJson) ConvertToDomain() RabbitmqPublishersConfig {
	return RabbitmqPublishersConfig{
		PublisherAlias: PublisherAlias(rpcj.PublisherAlias),
		Exchange:       rpcj.Exchange,
		ExchangeType:   utilities.Ternary(rpcj.ExchangeType == "", "topic", rpcj.ExchangeType),
		RoutingKey:     rpcj.RoutingKey,
	}
}

type RabbitmqConsumerConfigJson struct {
	ConsumerAlias string `json:"consumer_alias"`
	ConsumerTag   string `json:"consumer_tag"`
	QueueName     string `json:"queue_name"`
	Exchange      string `json:"exchange"`
	BindingKey    string `json:"binding_key"`
}

type RabbitmqConsumerConfig struct {
	ConsumerAlias ConsumerAlias
	ConsumerTag   string
	QueueName     string
	Exchange      string
	BindingKey    string
}

func (rccj RabbitmqConsumerConfigJson) ConvertToDomain() RabbitmqConsumerConfig {
	return RabbitmqConsumerConfig{
		ConsumerAlias: ConsumerAlias(rccj.ConsumerAlias),
		QueueName:     rccj.QueueName,
		ConsumerTag:   rccj.ConsumerTag,
		Exchange:      rccj.Exchange,
		BindingKey:    utilities.Ternary(rccj.BindingKey == "", "#", rccj.BindingKey),
	}
}
