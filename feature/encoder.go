package feature

import (
	"fmt"
	"strconv"

	"github.com/rushteam/laptoprec/core"
)

// RAMUnit 是内存字段的单位后缀。
const RAMUnit = "GB"

// EncodeLaptop 把一台笔记本的结构化属性拼成一段文本，作为 TF-IDF 的唯一输入。
//
// 字段顺序固定：品牌、类别、处理器、内存+GB、存储、显卡、当前价格；
// 缺省字段以空串占位。相同属性必然得到逐字节相同的文本。
func EncodeLaptop(l *core.Laptop) string {
	if l == nil {
		return EncodeLaptop(&core.Laptop{})
	}
	specs := l.Specifications
	ram := ""
	if v, ok := specs.RAMValue(); ok {
		ram = formatNumber(v)
	}
	return fmt.Sprintf("%s %s %s %s%s %s %s %s ",
		l.Brand,
		l.Category,
		specs.Processor,
		ram, RAMUnit,
		specs.Storage,
		specs.GPU,
		formatNumber(l.Price.Current),
	)
}

// EncodeCatalog 逐个编码，输出顺序与输入一致（下标用于把相似度对应回物品）。
func EncodeCatalog(laptops []*core.Laptop) []string {
	docs := make([]string, len(laptops))
	for i, l := range laptops {
		docs[i] = EncodeLaptop(l)
	}
	return docs
}

// formatNumber 以最短形式输出数字：16 -> "16"，1299.99 -> "1299.99"
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
