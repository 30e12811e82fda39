package core

// Laptop 是目录中的一台笔记本（CatalogItem）。
// 单次请求内只读；所有召回源共享同一份快照，不得修改。
type Laptop struct {
	ID             string         `json:"_id" bson:"-"`
	Name           string         `json:"name" bson:"name"`
	Brand          string         `json:"brand" bson:"brand"`
	Model          string         `json:"model,omitempty" bson:"model,omitempty"`
	Category       string         `json:"category" bson:"category"`
	Specifications Specifications `json:"specifications" bson:"specifications"`
	Features       Features       `json:"features" bson:"features"`
	Price          Price          `json:"price" bson:"price"`
}

// Specifications 是笔记本规格，除编码器使用的四项外其余仅用于展示。
// 所有字段都可缺省。
type Specifications struct {
	Processor   string   `json:"processor,omitempty" bson:"processor,omitempty"`
	RAM         *float64 `json:"ram,omitempty" bson:"ram,omitempty"` // GB
	Storage     string   `json:"storage,omitempty" bson:"storage,omitempty"`
	GPU         string   `json:"gpu,omitempty" bson:"gpu,omitempty"`
	DisplaySize float64  `json:"displaySize,omitempty" bson:"displaySize,omitempty"`
	Resolution  string   `json:"resolution,omitempty" bson:"resolution,omitempty"`
	Weight      float64  `json:"weight,omitempty" bson:"weight,omitempty"`
	BatteryLife float64  `json:"batteryLife,omitempty" bson:"batteryLife,omitempty"`
	RefreshRate float64  `json:"refreshRate,omitempty" bson:"refreshRate,omitempty"` // Hz
}

// Features 是布尔型硬件特性。
type Features struct {
	Touchscreen        bool `json:"touchscreen,omitempty" bson:"touchscreen,omitempty"`
	IPS                bool `json:"ips,omitempty" bson:"ips,omitempty"`
	BacklitKeyboard    bool `json:"backlitKeyboard,omitempty" bson:"backlitKeyboard,omitempty"`
	FingerprintScanner bool `json:"fingerprintScanner,omitempty" bson:"fingerprintScanner,omitempty"`
}

// Price 价格，缺省为 0。
type Price struct {
	Current  float64 `json:"current" bson:"current"`
	Original float64 `json:"original,omitempty" bson:"original,omitempty"`
	Currency string  `json:"currency,omitempty" bson:"currency,omitempty"`
}

// DefaultCurrency 是价格未标注币种时的默认值。
const DefaultCurrency = "EUR"

// RAMValue 返回内存大小，缺省返回 (0, false)。
func (s Specifications) RAMValue() (float64, bool) {
	if s.RAM == nil {
		return 0, false
	}
	return *s.RAM, true
}
