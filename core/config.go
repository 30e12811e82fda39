package core

// RecallConfig 是召回相关的配置接口，用于提供默认值。
type RecallConfig interface {
	// DefaultTopK 返回默认返回条数（请求未指定 N 时使用）
	DefaultTopK() int

	// DefaultPeerLimit 返回行为召回最多参考的相似用户数
	DefaultPeerLimit() int

	// DefaultHeadroom 返回融合时向单路召回多要的倍数（N × Headroom）
	DefaultHeadroom() int

	// DefaultContentWeight 返回内容相似度在融合中的权重
	DefaultContentWeight() float64

	// DefaultBehaviorWeight 返回行为召回在融合中的固定加分
	DefaultBehaviorWeight() float64
}

// DefaultRecallConfig 是默认的召回配置实现。
type DefaultRecallConfig struct{}

func (c *DefaultRecallConfig) DefaultTopK() int {
	return 10
}

func (c *DefaultRecallConfig) DefaultPeerLimit() int {
	return 5
}

func (c *DefaultRecallConfig) DefaultHeadroom() int {
	return 2
}

func (c *DefaultRecallConfig) DefaultContentWeight() float64 {
	return 0.7
}

func (c *DefaultRecallConfig) DefaultBehaviorWeight() float64 {
	return 0.3
}
