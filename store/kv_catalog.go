package store

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"

	"github.com/rushteam/laptoprec/core"
)

// DefaultKeyPrefix 是 KVCatalog 的默认 key 前缀。
const DefaultKeyPrefix = "laptop"

// errCorruptRecord 表示存储中的文档无法解码
var errCorruptRecord = core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInternalError, "catalog: corrupt record")

// KVCatalog 把目录与用户偏好以 JSON 文档形式存放在 core.Store 中。
//
// Key 格式：
//   - {prefix}:items          笔记本 ID 列表（JSON 数组，决定全量扫描顺序）
//   - {prefix}:item:{id}      单台笔记本
//   - {prefix}:users          用户 ID 列表（JSON 数组）
//   - {prefix}:user:{id}      用户偏好记录
//
// 同一使用场景的用户按 users 列表顺序扫描。
type KVCatalog struct {
	store  core.Store
	prefix string
	now    func() time.Time
}

func NewKVCatalog(store core.Store, prefix string) *KVCatalog {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &KVCatalog{store: store, prefix: prefix, now: time.Now}
}

func (c *KVCatalog) Name() string { return "kv:" + c.store.Name() }

func (c *KVCatalog) itemsKey() string         { return c.prefix + ":items" }
func (c *KVCatalog) itemKey(id string) string { return c.prefix + ":item:" + id }
func (c *KVCatalog) usersKey() string         { return c.prefix + ":users" }
func (c *KVCatalog) userKey(id string) string { return c.prefix + ":user:" + id }

func (c *KVCatalog) FetchAllItems(ctx context.Context) ([]*core.Laptop, error) {
	ids, err := c.readIDs(ctx, c.itemsKey())
	if err != nil || len(ids) == 0 {
		return nil, err
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = c.itemKey(id)
	}
	raw, err := c.store.BatchGet(ctx, keys)
	if err != nil {
		return nil, err
	}

	out := make([]*core.Laptop, 0, len(ids))
	for i, id := range ids {
		data, ok := raw[keys[i]]
		if !ok {
			continue
		}
		laptop, err := decodeLaptop(id, data)
		if err != nil {
			return nil, err
		}
		out = append(out, laptop)
	}
	return out, nil
}

func (c *KVCatalog) FetchItem(ctx context.Context, id string) (*core.Laptop, error) {
	data, err := c.store.Get(ctx, c.itemKey(id))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return decodeLaptop(id, data)
}

func (c *KVCatalog) FetchUserPreferences(ctx context.Context, userID string) (*core.UserPreference, error) {
	data, err := c.store.Get(ctx, c.userKey(userID))
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return decodeUserPreference(userID, data)
}

func (c *KVCatalog) FetchPeerUsers(ctx context.Context, excludeID, usageType string, limit int) ([]*core.UserPreference, error) {
	if limit <= 0 {
		return nil, nil
	}
	ids, err := c.readIDs(ctx, c.usersKey())
	if err != nil {
		return nil, err
	}

	peers := make([]*core.UserPreference, 0, limit)
	for _, id := range ids {
		if id == excludeID {
			continue
		}
		pref, err := c.FetchUserPreferences(ctx, id)
		if err != nil {
			return nil, err
		}
		if pref == nil || pref.UsageType() != usageType {
			continue
		}
		peers = append(peers, pref)
		if len(peers) == limit {
			break
		}
	}
	return peers, nil
}

// PutLaptop 写入（或覆盖）一台笔记本，新 ID 追加到列表末尾。
func (c *KVCatalog) PutLaptop(ctx context.Context, laptop *core.Laptop) error {
	if laptop == nil || laptop.ID == "" {
		return core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput, "catalog: laptop id is required")
	}
	data, err := json.Marshal(laptop)
	if err != nil {
		return err
	}
	if err := c.store.Set(ctx, c.itemKey(laptop.ID), data); err != nil {
		return err
	}
	return c.appendID(ctx, c.itemsKey(), laptop.ID)
}

// PutUserPreference 写入（或覆盖）一条用户偏好记录。
func (c *KVCatalog) PutUserPreference(ctx context.Context, pref *core.UserPreference) error {
	if pref == nil || pref.UserID == "" {
		return core.NewDomainError(core.ModuleCatalog, core.ErrorCodeInvalidInput, "catalog: user id is required")
	}
	if err := c.writeUserPreference(ctx, pref); err != nil {
		return err
	}
	return c.appendID(ctx, c.usersKey(), pref.UserID)
}

// RecordView 与 RecordSave 是读-改-写，同一用户的并发写入可能丢失其中一次；
// 需要并发安全的交互记录时使用 MongoCatalog。
func (c *KVCatalog) RecordView(ctx context.Context, userID, laptopID string, rating int) error {
	pref, err := c.mustUserPreference(ctx, userID)
	if err != nil {
		return err
	}
	if !pref.AddView(laptopID, rating, c.now()) {
		return nil
	}
	return c.writeUserPreference(ctx, pref)
}

func (c *KVCatalog) RecordSave(ctx context.Context, userID, laptopID, note string) error {
	pref, err := c.mustUserPreference(ctx, userID)
	if err != nil {
		return err
	}
	pref.AddSave(laptopID, note, c.now())
	return c.writeUserPreference(ctx, pref)
}

func (c *KVCatalog) mustUserPreference(ctx context.Context, userID string) (*core.UserPreference, error) {
	pref, err := c.FetchUserPreferences(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		return nil, core.ErrUserPreferenceNotFound
	}
	return pref, nil
}

func (c *KVCatalog) writeUserPreference(ctx context.Context, pref *core.UserPreference) error {
	data, err := json.Marshal(pref)
	if err != nil {
		return err
	}
	return c.store.Set(ctx, c.userKey(pref.UserID), data)
}

func (c *KVCatalog) readIDs(ctx context.Context, key string) ([]string, error) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if core.IsStoreNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	var ids []string
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", errCorruptRecord, key, err)
	}
	return ids, nil
}

func (c *KVCatalog) appendID(ctx context.Context, key, id string) error {
	ids, err := c.readIDs(ctx, key)
	if err != nil {
		return err
	}
	for _, existing := range ids {
		if existing == id {
			return nil
		}
	}
	data, err := json.Marshal(append(ids, id))
	if err != nil {
		return err
	}
	return c.store.Set(ctx, key, data)
}

func decodeLaptop(id string, data []byte) (*core.Laptop, error) {
	var laptop core.Laptop
	if err := json.Unmarshal(data, &laptop); err != nil {
		return nil, fmt.Errorf("%w: decode laptop %s: %v", errCorruptRecord, id, err)
	}
	if laptop.ID == "" {
		laptop.ID = id
	}
	if laptop.Price.Currency == "" {
		laptop.Price.Currency = core.DefaultCurrency
	}
	return &laptop, nil
}

func decodeUserPreference(userID string, data []byte) (*core.UserPreference, error) {
	var pref core.UserPreference
	if err := json.Unmarshal(data, &pref); err != nil {
		return nil, fmt.Errorf("%w: decode user preferences %s: %v", errCorruptRecord, userID, err)
	}
	if pref.UserID == "" {
		pref.UserID = userID
	}
	return &pref, nil
}

var (
	_ core.Catalog             = (*KVCatalog)(nil)
	_ core.InteractionRecorder = (*KVCatalog)(nil)
)
