package core

import "context"

// Catalog 是目录与用户数据的领域接口（Catalog Accessor）。
//
// 设计原则：
//   - 定义在领域层（core），由基础设施层（store）实现
//   - 通过构造函数注入到各召回源，测试时可替换为内存实现
//   - “不存在”不是错误：FetchItem / FetchUserPreferences 返回 (nil, nil)
//   - 只有存储/连接故障返回 error，调用方原样向上传递，不重试
//
// 实现：
//   - store.KVCatalog 实现此接口（基于 core.Store：Memory / Redis）
//   - store.MongoCatalog 实现此接口（MongoDB）
type Catalog interface {
	// Name 返回存储后端名称（用于日志/监控）
	Name() string

	// FetchAllItems 全量扫描目录，顺序为存储返回的顺序
	FetchAllItems(ctx context.Context) ([]*Laptop, error)

	// FetchItem 按 ID 获取单台笔记本，不存在返回 (nil, nil)
	FetchItem(ctx context.Context, id string) (*Laptop, error)

	// FetchUserPreferences 获取用户偏好记录，不存在返回 (nil, nil)
	FetchUserPreferences(ctx context.Context, userID string) (*UserPreference, error)

	// FetchPeerUsers 获取至多 limit 个与 usageType 相同的其他用户（排除 excludeID）
	FetchPeerUsers(ctx context.Context, excludeID, usageType string, limit int) ([]*UserPreference, error)
}

// InteractionRecorder 记录用户与笔记本的交互（浏览 / 收藏）。
//
// 用户偏好记录不存在时返回 NOT_FOUND 的 DomainError。
type InteractionRecorder interface {
	// RecordView 记录浏览；同一台笔记本只记录第一次
	RecordView(ctx context.Context, userID, laptopID string, rating int) error

	// RecordSave 记录收藏；每次都追加
	RecordSave(ctx context.Context, userID, laptopID, note string) error
}

// ErrUserPreferenceNotFound 表示记录交互时用户偏好不存在
var ErrUserPreferenceNotFound = NewDomainError(ModuleCatalog, ErrorCodeNotFound, "catalog: user preferences not found")
