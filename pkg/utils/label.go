package utils

import "strings"

// Label 是推荐链路中的一等公民：可解释、可追踪、可透传。
// 例如 recall_source=content / collaborative，based_on=similar users。
type Label struct {
	Value  string `json:"value"`
	Source string `json:"source"` // recall / filter / rerank / fusion ...
}

// MergeLabel 合并同名 Label：
//   - Value 以 '|' 累积，已出现过的值不重复追加
//   - Source 以 ',' 累积，同样去重
func MergeLabel(existing Label, incoming Label) Label {
	if existing.Value == "" {
		return incoming
	}
	if incoming.Value == "" {
		return existing
	}
	return Label{
		Value:  appendUnique(existing.Value, incoming.Value, "|"),
		Source: appendUnique(existing.Source, incoming.Source, ","),
	}
}

// MergeLabels 把 src 中的 Label 逐个合并进 dst，返回 dst（dst 为 nil 时新建）。
func MergeLabels(dst, src map[string]Label) map[string]Label {
	if dst == nil {
		dst = make(map[string]Label, len(src))
	}
	for k, v := range src {
		if old, ok := dst[k]; ok {
			dst[k] = MergeLabel(old, v)
			continue
		}
		dst[k] = v
	}
	return dst
}

func appendUnique(list, v, sep string) string {
	switch {
	case list == "":
		return v
	case v == "":
		return list
	}
	for _, part := range strings.Split(list, sep) {
		if part == v {
			return list
		}
	}
	return list + sep + v
}
