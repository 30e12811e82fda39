package recall

import (
	"cmp"
	"context"
	"sort"
	"strings"

	"github.com/rushteam/laptoprec/core"
	"github.com/rushteam/laptoprec/pkg/utils"
)

// DefaultPersonalizedTopK 是个性化召回的默认返回条数。
const DefaultPersonalizedTopK = 8

// 匹配度各项权重，未参与计算的项不计入分母。
const (
	budgetWeight      = 0.4
	performanceWeight = 0.3
	portabilityWeight = 0.2
	displayWeight     = 0.1
)

// 推荐理由。
const (
	ReasonBudget      = "Fits your budget range"
	ReasonPortable    = "Lightweight and portable"
	ReasonPerformance = "High performance for demanding tasks"
	ReasonTouchscreen = "Includes touchscreen as preferred"
)

// PersonalizedRecall 按用户填写的偏好召回（Preference Match Ranker）。
//
// 算法流程：
//  1. 读取用户偏好，不存在返回 NOT_FOUND
//  2. 硬性筛选：价格在预算内；便携重要时重量不超过上限；要求触屏时必须触屏
//  3. 按“重要”的偏好排序：性能（内存、处理器降序）、便携（重量升序）、续航（降序），
//     其余保持目录顺序
//  4. 取前 PoolSize 个，去掉用户浏览过的，再取前 ScoreWindow 个
//  5. 计算匹配度与推荐理由，按匹配度降序稳定排序后取 TopK
type PersonalizedRecall struct {
	Catalog core.Catalog

	// TopK 默认返回条数，rctx.TopK > 0 时以 rctx 为准，都未指定时为 8
	TopK int

	// PoolSize 排序后参与后续处理的条数，<= 0 时为 20
	PoolSize int

	// ScoreWindow 去掉已浏览后参与打分的条数，<= 0 时为 10
	ScoreWindow int
}

func (r *PersonalizedRecall) Name() string {
	return "recall.personalized"
}

func (r *PersonalizedRecall) Recall(
	ctx context.Context,
	rctx *core.RecommendContext,
) ([]*core.Item, error) {
	if r.Catalog == nil || rctx == nil || rctx.UserID == "" {
		return nil, nil
	}

	pref, err := r.Catalog.FetchUserPreferences(ctx, rctx.UserID)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		return nil, core.ErrUserPreferenceNotFound
	}
	prefs := pref.Preferences.Resolved()

	laptops, err := r.Catalog.FetchAllItems(ctx)
	if err != nil {
		return nil, err
	}

	matched := make([]*core.Laptop, 0, len(laptops))
	for _, l := range laptops {
		if l != nil && matchesPreferences(l, prefs) {
			matched = append(matched, l)
		}
	}
	sort.SliceStable(matched, func(i, j int) bool {
		return comparePreferred(matched[i], matched[j], prefs) < 0
	})
	matched = truncateLaptops(matched, orDefault(r.PoolSize, 20))

	unseen := matched[:0:0]
	for _, l := range matched {
		if !pref.HasViewed(l.ID) {
			unseen = append(unseen, l)
		}
	}
	unseen = truncateLaptops(unseen, orDefault(r.ScoreWindow, 10))

	out := make([]*core.Item, 0, len(unseen))
	for _, l := range unseen {
		it := core.NewItem(l, core.SourcePersonalized)
		it.Score = MatchScore(l, prefs)
		it.PutLabel("recall_source", utils.Label{Value: core.SourcePersonalized, Source: "recall"})
		for _, reason := range Reasons(l, prefs) {
			it.PutLabel(core.ReasonsLabel, utils.Label{Value: reason, Source: "recall"})
		}
		out = append(out, it)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})

	k := DefaultPersonalizedTopK
	if rctx.TopK > 0 {
		k = rctx.TopK
	} else if r.TopK > 0 {
		k = r.TopK
	}
	return truncate(out, k), nil
}

func matchesPreferences(l *core.Laptop, p core.Preferences) bool {
	price := l.Price.Current
	if price < p.Budget.Min || price > p.Budget.Max {
		return false
	}
	if p.Portability.Importance >= core.ImportantThreshold {
		w := l.Specifications.Weight
		if w <= 0 || w > p.Portability.MaxWeight {
			return false
		}
	}
	if p.Display.Touchscreen && !l.Features.Touchscreen {
		return false
	}
	return true
}

// comparePreferred 按重要偏好依次比较，返回 < 0 表示 a 排在 b 前面。
// 缺失的内存排在最后。
func comparePreferred(a, b *core.Laptop, p core.Preferences) int {
	if p.Performance.Importance >= core.ImportantThreshold {
		if c := cmp.Compare(ramOrMissing(b), ramOrMissing(a)); c != 0 {
			return c
		}
		if c := strings.Compare(b.Specifications.Processor, a.Specifications.Processor); c != 0 {
			return c
		}
	}
	if p.Portability.Importance >= core.ImportantThreshold {
		if c := cmp.Compare(a.Specifications.Weight, b.Specifications.Weight); c != 0 {
			return c
		}
	}
	if p.Battery.Importance >= core.ImportantThreshold {
		if c := cmp.Compare(b.Specifications.BatteryLife, a.Specifications.BatteryLife); c != 0 {
			return c
		}
	}
	return 0
}

func ramOrMissing(l *core.Laptop) float64 {
	if v, ok := l.Specifications.RAMValue(); ok {
		return v
	}
	return -1
}

// MatchScore 计算笔记本与偏好的匹配度，取值 [0,1]。
// 预算始终参与；性能、便携、屏幕在重要度 >= 5 时参与。p 需已补齐缺省值。
func MatchScore(l *core.Laptop, p core.Preferences) float64 {
	score := budgetScore(l.Price.Current, p.Budget) * budgetWeight
	total := budgetWeight

	if p.Performance.Importance >= core.ConsideredThreshold {
		score += performanceScore(l) * performanceWeight
		total += performanceWeight
	}
	if p.Portability.Importance >= core.ConsideredThreshold {
		score += portabilityScore(l.Specifications.Weight, p.Portability.MaxWeight) * portabilityWeight
		total += portabilityWeight
	}
	if p.Display.Importance >= core.ConsideredThreshold {
		score += displayScore(l, p.Display) * displayWeight
		total += displayWeight
	}
	return score / total
}

func budgetScore(price float64, b core.BudgetPreference) float64 {
	switch {
	case price >= b.Min && price <= b.Max:
		return 1
	case price < b.Min:
		return 0.8
	case price <= b.Max*1.2:
		return 0.6
	default:
		return 0.3
	}
}

func performanceScore(l *core.Laptop) float64 {
	var score float64
	ram, _ := l.Specifications.RAMValue()
	switch {
	case ram >= 16:
		score += 0.6
	case ram >= 8:
		score += 0.4
	default:
		score += 0.2
	}

	cpu := l.Specifications.Processor
	switch {
	case strings.Contains(cpu, "i7") || strings.Contains(cpu, "Ryzen 7"):
		score += 0.4
	case strings.Contains(cpu, "i5") || strings.Contains(cpu, "Ryzen 5"):
		score += 0.3
	default:
		score += 0.2
	}
	return score
}

// portabilityScore 重量未知时按最低档计分。
func portabilityScore(weight, maxWeight float64) float64 {
	switch {
	case weight <= 0:
		return 0.1
	case weight <= maxWeight:
		return 1
	case weight <= maxWeight*1.2:
		return 0.7
	case weight <= maxWeight*1.5:
		return 0.4
	default:
		return 0.1
	}
}

func displayScore(l *core.Laptop, d core.DisplayPreference) float64 {
	score := 0.5
	if d.Touchscreen && l.Features.Touchscreen {
		score += 0.3
	}
	if d.HighRefreshRate && l.Specifications.RefreshRate >= 120 {
		score += 0.2
	}
	return min(score, 1)
}

// Reasons 返回推荐理由，顺序固定：预算、便携、性能、触屏。
func Reasons(l *core.Laptop, p core.Preferences) []string {
	var reasons []string
	if l.Price.Current >= p.Budget.Min && l.Price.Current <= p.Budget.Max {
		reasons = append(reasons, ReasonBudget)
	}
	w := l.Specifications.Weight
	if p.Portability.Importance >= core.ImportantThreshold && w > 0 && w <= p.Portability.MaxWeight {
		reasons = append(reasons, ReasonPortable)
	}
	if ram, _ := l.Specifications.RAMValue(); p.Performance.Importance >= core.ImportantThreshold && ram >= 16 {
		reasons = append(reasons, ReasonPerformance)
	}
	if p.Display.Touchscreen && l.Features.Touchscreen {
		reasons = append(reasons, ReasonTouchscreen)
	}
	return reasons
}

func truncateLaptops(laptops []*core.Laptop, k int) []*core.Laptop {
	if k > 0 && len(laptops) > k {
		return laptops[:k]
	}
	return laptops
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
