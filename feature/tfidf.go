package feature

import (
	"math"
	"sort"
)

// Vector 是按下标升序存放的稀疏向量。
// 固定顺序保证点积与范数的浮点累加结果在多次调用间一致。
type Vector struct {
	Indices []int
	Values  []float64
}

// Norm 返回 L2 范数。
func (v Vector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Dot 计算两个稀疏向量的点积（双指针归并）。
func (v Vector) Dot(o Vector) float64 {
	var dot float64
	i, j := 0, 0
	for i < len(v.Indices) && j < len(o.Indices) {
		switch {
		case v.Indices[i] == o.Indices[j]:
			dot += v.Values[i] * o.Values[j]
			i++
			j++
		case v.Indices[i] < o.Indices[j]:
			i++
		default:
			j++
		}
	}
	return dot
}

// Cosine 计算余弦相似度，结果截断到 [0,1]；任一向量为零向量时返回 0。
func Cosine(a, b Vector) float64 {
	na, nb := a.Norm(), b.Norm()
	if na == 0 || nb == 0 {
		return 0
	}
	sim := a.Dot(b) / (na * nb)
	switch {
	case sim < 0:
		return 0
	case sim > 1:
		return 1
	}
	return sim
}

// TFIDFVectorizer 把文本语料转换为 TF-IDF 加权向量。
//
//   - 词频：原始计数
//   - 逆文档频率：idf = ln((1+n)/(1+df)) + 1
//   - 每行做 L2 归一化
//
// 一个 Vectorizer 只服务一次请求的语料，不在请求间共享。
type TFIDFVectorizer struct {
	StopWords  StopWords
	Vocabulary map[string]int
	IDF        []float64
}

// NewTFIDFVectorizer 创建向量化器，stopWords 为 nil 时不过滤停用词。
func NewTFIDFVectorizer(stopWords StopWords) *TFIDFVectorizer {
	return &TFIDFVectorizer{
		StopWords:  stopWords,
		Vocabulary: make(map[string]int),
	}
}

func (v *TFIDFVectorizer) analyze(doc string) []string {
	tokens := Tokenize(doc)
	out := tokens[:0]
	for _, t := range tokens {
		if v.StopWords.Contains(t) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// Fit 在语料上建立词表（按字典序编号）与 IDF。
func (v *TFIDFVectorizer) Fit(docs []string) {
	df := make(map[string]int)
	for _, doc := range docs {
		seen := make(map[string]struct{})
		for _, t := range v.analyze(doc) {
			if _, ok := seen[t]; ok {
				continue
			}
			seen[t] = struct{}{}
			df[t]++
		}
	}

	terms := make([]string, 0, len(df))
	for t := range df {
		terms = append(terms, t)
	}
	sort.Strings(terms)

	n := float64(len(docs))
	v.Vocabulary = make(map[string]int, len(terms))
	v.IDF = make([]float64, len(terms))
	for i, t := range terms {
		v.Vocabulary[t] = i
		v.IDF[i] = math.Log((1+n)/(1+float64(df[t]))) + 1
	}
}

// Transform 把单个文本转换为 L2 归一化的 TF-IDF 向量；词表外的词被忽略。
func (v *TFIDFVectorizer) Transform(doc string) Vector {
	counts := make(map[int]float64)
	for _, t := range v.analyze(doc) {
		if idx, ok := v.Vocabulary[t]; ok {
			counts[idx]++
		}
	}

	vec := Vector{
		Indices: make([]int, 0, len(counts)),
		Values:  make([]float64, 0, len(counts)),
	}
	for idx := range counts {
		vec.Indices = append(vec.Indices, idx)
	}
	sort.Ints(vec.Indices)
	for _, idx := range vec.Indices {
		vec.Values = append(vec.Values, counts[idx]*v.IDF[idx])
	}

	if norm := vec.Norm(); norm > 0 {
		for i := range vec.Values {
			vec.Values[i] /= norm
		}
	}
	return vec
}

// FitTransform 先 Fit 再逐行 Transform，输出顺序与输入一致。
func (v *TFIDFVectorizer) FitTransform(docs []string) []Vector {
	v.Fit(docs)
	out := make([]Vector, len(docs))
	for i, doc := range docs {
		out[i] = v.Transform(doc)
	}
	return out
}
