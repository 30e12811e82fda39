package core

import "time"

// DefaultUsageType 是用户未填写使用场景时的取值。
const DefaultUsageType = "general"

// 偏好缺省值，与用户偏好表的默认值一致。
const (
	DefaultImportance = 5
	DefaultBudgetMax  = 5000
	DefaultMaxWeight  = 2.5 // kg
	DefaultMinDisplay = 13  // 英寸
	DefaultMinBattery = 6   // 小时

	// ImportantThreshold 及以上视为“重要”，参与硬性筛选与排序
	ImportantThreshold = 7
	// ConsideredThreshold 及以上参与匹配度计算
	ConsideredThreshold = 5
)

// UserPreference 是用户偏好记录（UserPreferenceRecord），由外部维护，推荐链路只读。
//
// 行为召回只关心三件事：
//   - 使用场景（usageType）：作为“相似用户”的判定依据
//   - 浏览过的笔记本：有序
//   - 收藏过的笔记本：有序
//
// 个性化召回额外读取预算、性能、便携、屏幕、续航五项偏好。
type UserPreference struct {
	UserID        string         `json:"userId"`
	Preferences   Preferences    `json:"preferences"`
	ViewedLaptops []ViewedLaptop `json:"viewedLaptops"`
	SavedLaptops  []SavedLaptop  `json:"savedLaptops"`
	LastUpdated   time.Time      `json:"lastUpdated,omitempty"`
}

// Preferences 是用户填写的偏好，未填写的数值项为 0，读取前用 Resolved 补齐缺省值。
type Preferences struct {
	UsageType   string                `json:"usageType,omitempty" bson:"usageType,omitempty"`
	Budget      BudgetPreference      `json:"budget" bson:"budget"`
	Performance PerformancePreference `json:"performance" bson:"performance"`
	Portability PortabilityPreference `json:"portability" bson:"portability"`
	Display     DisplayPreference     `json:"display" bson:"display"`
	Battery     BatteryPreference     `json:"battery" bson:"battery"`
}

type BudgetPreference struct {
	Min      float64 `json:"min,omitempty" bson:"min,omitempty"`
	Max      float64 `json:"max,omitempty" bson:"max,omitempty"`
	Currency string  `json:"currency,omitempty" bson:"currency,omitempty"`
}

type PerformancePreference struct {
	Importance int      `json:"importance,omitempty" bson:"importance,omitempty"` // 1-10
	Usage      []string `json:"usage,omitempty" bson:"usage,omitempty"`
}

type PortabilityPreference struct {
	Importance int     `json:"importance,omitempty" bson:"importance,omitempty"`
	MaxWeight  float64 `json:"maxWeight,omitempty" bson:"maxWeight,omitempty"`
}

type DisplayPreference struct {
	Importance      int     `json:"importance,omitempty" bson:"importance,omitempty"`
	MinSize         float64 `json:"minSize,omitempty" bson:"minSize,omitempty"`
	Touchscreen     bool    `json:"touchscreen,omitempty" bson:"touchscreen,omitempty"`
	HighRefreshRate bool    `json:"highRefreshRate,omitempty" bson:"highRefreshRate,omitempty"`
}

type BatteryPreference struct {
	Importance int     `json:"importance,omitempty" bson:"importance,omitempty"`
	MinHours   float64 `json:"minHours,omitempty" bson:"minHours,omitempty"`
}

// Resolved 返回补齐缺省值后的偏好。预算上限为 0 视为未填写。
func (p Preferences) Resolved() Preferences {
	if p.Budget.Max <= 0 {
		p.Budget.Max = DefaultBudgetMax
	}
	if p.Budget.Currency == "" {
		p.Budget.Currency = DefaultCurrency
	}
	p.Performance.Importance = importanceOrDefault(p.Performance.Importance)
	p.Portability.Importance = importanceOrDefault(p.Portability.Importance)
	if p.Portability.MaxWeight <= 0 {
		p.Portability.MaxWeight = DefaultMaxWeight
	}
	p.Display.Importance = importanceOrDefault(p.Display.Importance)
	if p.Display.MinSize <= 0 {
		p.Display.MinSize = DefaultMinDisplay
	}
	p.Battery.Importance = importanceOrDefault(p.Battery.Importance)
	if p.Battery.MinHours <= 0 {
		p.Battery.MinHours = DefaultMinBattery
	}
	return p
}

func importanceOrDefault(v int) int {
	if v <= 0 {
		return DefaultImportance
	}
	return v
}

// ViewedLaptop 是一次浏览记录。
type ViewedLaptop struct {
	LaptopID string    `json:"laptopId"`
	ViewedAt time.Time `json:"viewedAt"`
	Rating   int       `json:"rating,omitempty"` // 1-5，0 表示未评分
}

// SavedLaptop 是一次收藏记录。
type SavedLaptop struct {
	LaptopID string    `json:"laptopId"`
	SavedAt  time.Time `json:"savedAt"`
	Note     string    `json:"note,omitempty"`
}

// UsageType 返回使用场景，缺省为 "general"。
func (p *UserPreference) UsageType() string {
	if p.Preferences.UsageType == "" {
		return DefaultUsageType
	}
	return p.Preferences.UsageType
}

// KnownLaptops 按“先浏览、后收藏”的顺序返回该用户接触过的笔记本 ID（可能重复）。
func (p *UserPreference) KnownLaptops() []string {
	ids := make([]string, 0, len(p.ViewedLaptops)+len(p.SavedLaptops))
	for _, v := range p.ViewedLaptops {
		ids = append(ids, v.LaptopID)
	}
	for _, s := range p.SavedLaptops {
		ids = append(ids, s.LaptopID)
	}
	return ids
}

// HasViewed 检查是否已浏览过某台笔记本。
func (p *UserPreference) HasViewed(laptopID string) bool {
	for _, v := range p.ViewedLaptops {
		if v.LaptopID == laptopID {
			return true
		}
	}
	return false
}

// AddView 追加浏览记录；已浏览过则忽略并返回 false。
func (p *UserPreference) AddView(laptopID string, rating int, at time.Time) bool {
	if p.HasViewed(laptopID) {
		return false
	}
	p.ViewedLaptops = append(p.ViewedLaptops, ViewedLaptop{
		LaptopID: laptopID,
		ViewedAt: at,
		Rating:   rating,
	})
	p.LastUpdated = at
	return true
}

// AddSave 追加收藏记录（不去重）。
func (p *UserPreference) AddSave(laptopID, note string, at time.Time) {
	p.SavedLaptops = append(p.SavedLaptops, SavedLaptop{
		LaptopID: laptopID,
		SavedAt:  at,
		Note:     note,
	})
	p.LastUpdated = at
}
