// Package store 提供 core 包中存储接口的实现。
//
//   - MemoryStore / RedisStore 实现 core.Store（KV）
//   - KVCatalog 基于任意 core.Store 实现 core.Catalog 与 core.InteractionRecorder
//   - MongoCatalog 基于 MongoDB 实现 core.Catalog 与 core.InteractionRecorder
//
// 示例：
//
//	kv := store.NewMemoryStore()
//	var catalog core.Catalog = store.NewKVCatalog(kv, "laptop")
package store
