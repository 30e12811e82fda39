package store

import (
	"context"
	"fmt"
	"os"

	"github.com/goccy/go-json"

	"github.com/rushteam/laptoprec/core"
)

// Seed 是导入 KVCatalog 的初始数据（JSON 文件格式）：
//
//	{"laptops": [{"_id": "...", ...}], "userPreferences": [{"userId": "...", ...}]}
type Seed struct {
	Laptops         []*core.Laptop         `json:"laptops"`
	UserPreferences []*core.UserPreference `json:"userPreferences"`
}

// ReadSeedFile 读取 JSON 格式的 Seed 文件。
func ReadSeedFile(path string) (*Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	var seed Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return nil, fmt.Errorf("decode seed %s: %w", path, err)
	}
	return &seed, nil
}

// Load 按文件顺序写入 Seed 中的笔记本与用户偏好。
func (c *KVCatalog) Load(ctx context.Context, seed *Seed) error {
	if seed == nil {
		return nil
	}
	for _, laptop := range seed.Laptops {
		if err := c.PutLaptop(ctx, laptop); err != nil {
			return err
		}
	}
	for _, pref := range seed.UserPreferences {
		if err := c.PutUserPreference(ctx, pref); err != nil {
			return err
		}
	}
	return nil
}
