package config

// StudyConfig holds the matched-pair study knobs.
type StudyConfig struct {
	TrialsPerCondition int     `yaml:"trials_per_condition,omitempty"`
	CyclesPerTrial     int     `yaml:"cycles_per_trial,omitempty"`
	BaseSeed           int64   `yaml:"base_seed,omitempty"`
	BudgetUsdc         float64 `yaml:"budget_usdc,omitempty"`
	PriceFloor         float64 `yaml:"price_floor,omitempty"`
	ZauthCheckCost     float64 `yaml:"zauth_check_cost,omitempty"`
	SkipThreshold      float64 `yaml:"skip_threshold,omitempty"`
	AvgQueryCost       float64 `yaml:"avg_query_cost,omitempty"`
}

// CompareConfig holds the interleaved comparison knobs. Weights must sum to
// roughly one; the loader does not rebalance them.
type CompareConfig struct {
	BudgetUsdc      float64 `yaml:"budget_usdc,omitempty"`
	PoolWeight      float64 `yaml:"pool_weight,omitempty"`
	WhaleWeight     float64 `yaml:"whale_weight,omitempty"`
	SentimentWeight float64 `yaml:"sentiment_weight,omitempty"`
	MaxPrice        float64 `yaml:"max_price,omitempty"`
}

func applyStudyDefaults(cfg *StudyConfig) {
	if cfg.TrialsPerCondition == 0 {
		cfg.TrialsPerCondition = 10
	}
	if cfg.CyclesPerTrial == 0 {
		cfg.CyclesPerTrial = 5
	}
	if cfg.BaseSeed == 0 {
		cfg.BaseSeed = 42
	}
	if cfg.BudgetUsdc == 0 {
		cfg.BudgetUsdc = 5.00
	}
	if cfg.PriceFloor == 0 {
		cfg.PriceFloor = 0.001
	}
	if cfg.ZauthCheckCost == 0 {
		cfg.ZauthCheckCost = 0.001
	}
	if cfg.SkipThreshold == 0 {
		cfg.SkipThreshold = 0.5
	}
	if cfg.AvgQueryCost == 0 {
		cfg.AvgQueryCost = 0.01
	}
}

func applyCompareDefaults(cfg *CompareConfig) {
	if cfg.BudgetUsdc == 0 {
		cfg.BudgetUsdc = 1.00
	}
	if cfg.PoolWeight == 0 {
		cfg.PoolWeight = 0.33
	}
	if cfg.WhaleWeight == 0 {
		cfg.WhaleWeight = 0.33
	}
	if cfg.SentimentWeight == 0 {
		cfg.SentimentWeight = 0.34
	}
}
