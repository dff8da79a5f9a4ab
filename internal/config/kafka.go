package config

const defaultExpensesTopic = "expenses"

type KafkaConfig struct {
	BrokerList []string `yaml:"brokers"`
	ExpTopic   string   `yaml:"expenses-topic"`
}

func (s *KafkaConfig) Brokers() []string {
	return s.BrokerList
}

func (s *KafkaConfig) ExpensesTopic() string {
	if s.ExpTopic == "" {
		return defaultExpensesTopic
	}
	return s.ExpTopic
}

func (s *KafkaConfig) Enabled() bool {
	return len(s.BrokerList) > 0
}
