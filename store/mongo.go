package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/rushteam/laptoprec/core"
)

// Mongo 默认库名与集合名。
const (
	DefaultMongoDatabase       = "laptop-predictor"
	LaptopCollection           = "laptops"
	UserPreferenceCollection   = "userpreferences"
	defaultMongoConnectTimeout = 10 * time.Second
)

// MongoCatalog 基于 MongoDB 实现 core.Catalog 与 core.InteractionRecorder。
//
// 文档的 _id / userId / laptopId 可以是 ObjectID 也可以是字符串，
// 对外统一转为字符串（ObjectID 使用 Hex）。
type MongoCatalog struct {
	client  *mongo.Client
	laptops *mongo.Collection
	users   *mongo.Collection
	now     func() time.Time
}

// NewMongoClient 连接并 Ping MongoDB。调用方负责 Disconnect。
func NewMongoClient(ctx context.Context, uri string) (*mongo.Client, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opt := options.Client().
		ApplyURI(uri).
		SetServerAPIOptions(serverAPI).
		SetConnectTimeout(defaultMongoConnectTimeout)
	client, err := mongo.Connect(opt)
	if err != nil {
		return nil, fmt.Errorf("mongo: connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: mongo ping: %v", core.ErrStoreUnavailable, err)
	}
	return client, nil
}

func NewMongoCatalog(client *mongo.Client, database string) *MongoCatalog {
	if database == "" {
		database = DefaultMongoDatabase
	}
	db := client.Database(database)
	return &MongoCatalog{
		client:  client,
		laptops: db.Collection(LaptopCollection),
		users:   db.Collection(UserPreferenceCollection),
		now:     time.Now,
	}
}

func (c *MongoCatalog) Name() string { return "mongo" }

// Close 断开底层连接。
func (c *MongoCatalog) Close(ctx context.Context) error {
	return c.client.Disconnect(ctx)
}

type laptopDoc struct {
	ID          any `bson:"_id"`
	core.Laptop `bson:",inline"`
}

type userPreferenceDoc struct {
	ID            any               `bson:"_id,omitempty"`
	UserID        any               `bson:"userId"`
	Preferences   core.Preferences  `bson:"preferences"`
	ViewedLaptops []viewedLaptopDoc `bson:"viewedLaptops"`
	SavedLaptops  []savedLaptopDoc  `bson:"savedLaptops"`
	LastUpdated   time.Time         `bson:"lastUpdated"`
}

type viewedLaptopDoc struct {
	LaptopID any       `bson:"laptopId"`
	ViewedAt time.Time `bson:"viewedAt"`
	Rating   int       `bson:"rating,omitempty"`
}

type savedLaptopDoc struct {
	LaptopID any       `bson:"laptopId"`
	SavedAt  time.Time `bson:"savedAt"`
	Note     string    `bson:"note,omitempty"`
}

func (c *MongoCatalog) FetchAllItems(ctx context.Context) ([]*core.Laptop, error) {
	cur, err := c.laptops.Find(ctx, bson.D{})
	if err != nil {
		return nil, fmt.Errorf("mongo: find laptops: %w", err)
	}
	defer cur.Close(ctx)

	var out []*core.Laptop
	for cur.Next(ctx) {
		var doc laptopDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo: decode laptop: %w", err)
		}
		out = append(out, doc.toLaptop())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("mongo: iterate laptops: %w", err)
	}
	return out, nil
}

func (c *MongoCatalog) FetchItem(ctx context.Context, id string) (*core.Laptop, error) {
	var doc laptopDoc
	err := c.laptops.FindOne(ctx, bson.D{{Key: "_id", Value: idFilter(id)}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongo: find laptop %s: %w", id, err)
	}
	return doc.toLaptop(), nil
}

func (c *MongoCatalog) FetchUserPreferences(ctx context.Context, userID string) (*core.UserPreference, error) {
	var doc userPreferenceDoc
	err := c.users.FindOne(ctx, bson.D{{Key: "userId", Value: idFilter(userID)}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("mongo: find user preferences %s: %w", userID, err)
	}
	return doc.toUserPreference(), nil
}

func (c *MongoCatalog) FetchPeerUsers(ctx context.Context, excludeID, usageType string, limit int) ([]*core.UserPreference, error) {
	if limit <= 0 {
		return nil, nil
	}
	filter := bson.D{
		{Key: "userId", Value: bson.D{{Key: "$nin", Value: idValues(excludeID)}}},
		{Key: "preferences.usageType", Value: usageType},
	}
	if usageType == core.DefaultUsageType {
		// 未填写 usageType 的用户按 general 处理
		filter = bson.D{
			{Key: "userId", Value: bson.D{{Key: "$nin", Value: idValues(excludeID)}}},
			{Key: "$or", Value: bson.A{
				bson.D{{Key: "preferences.usageType", Value: usageType}},
				bson.D{{Key: "preferences.usageType", Value: bson.D{{Key: "$in", Value: bson.A{nil, ""}}}}},
			}},
		}
	}

	cur, err := c.users.Find(ctx, filter, options.Find().SetLimit(int64(limit)))
	if err != nil {
		return nil, fmt.Errorf("mongo: find peer users: %w", err)
	}
	defer cur.Close(ctx)

	peers := make([]*core.UserPreference, 0, limit)
	for cur.Next(ctx) {
		var doc userPreferenceDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("mongo: decode user preferences: %w", err)
		}
		peers = append(peers, doc.toUserPreference())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("mongo: iterate peer users: %w", err)
	}
	return peers, nil
}

// RecordView 在一次条件更新中完成去重与追加：
// 未命中说明用户不存在或已浏览过，再查一次用户是否存在以区分两者。
func (c *MongoCatalog) RecordView(ctx context.Context, userID, laptopID string, rating int) error {
	now := c.now()
	view := viewedLaptopDoc{LaptopID: idValue(laptopID), ViewedAt: now, Rating: rating}
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "viewedLaptops", Value: view}}},
		{Key: "$set", Value: bson.D{{Key: "lastUpdated", Value: now}}},
	}
	res, err := c.users.UpdateOne(ctx, unviewedFilter(userID, laptopID), update)
	if err != nil {
		return fmt.Errorf("mongo: record view: %w", err)
	}
	if res.MatchedCount > 0 {
		return nil
	}

	n, err := c.users.CountDocuments(ctx, bson.D{{Key: "userId", Value: idFilter(userID)}}, options.Count().SetLimit(1))
	if err != nil {
		return fmt.Errorf("mongo: record view: %w", err)
	}
	if n == 0 {
		return core.ErrUserPreferenceNotFound
	}
	return nil
}

// unviewedFilter 匹配尚未浏览过 laptopID 的用户记录。
func unviewedFilter(userID, laptopID string) bson.D {
	return bson.D{
		{Key: "userId", Value: idFilter(userID)},
		{Key: "viewedLaptops.laptopId", Value: bson.D{{Key: "$nin", Value: idValues(laptopID)}}},
	}
}

func (c *MongoCatalog) RecordSave(ctx context.Context, userID, laptopID, note string) error {
	now := c.now()
	save := savedLaptopDoc{LaptopID: idValue(laptopID), SavedAt: now, Note: note}
	update := bson.D{
		{Key: "$push", Value: bson.D{{Key: "savedLaptops", Value: save}}},
		{Key: "$set", Value: bson.D{{Key: "lastUpdated", Value: now}}},
	}
	res, err := c.users.UpdateOne(ctx, bson.D{{Key: "userId", Value: idFilter(userID)}}, update)
	if err != nil {
		return fmt.Errorf("mongo: record save: %w", err)
	}
	if res.MatchedCount == 0 {
		return core.ErrUserPreferenceNotFound
	}
	return nil
}

func (d *laptopDoc) toLaptop() *core.Laptop {
	laptop := d.Laptop
	laptop.ID = idString(d.ID)
	if laptop.Price.Currency == "" {
		laptop.Price.Currency = core.DefaultCurrency
	}
	return &laptop
}

func (d *userPreferenceDoc) toUserPreference() *core.UserPreference {
	pref := &core.UserPreference{
		UserID:        idString(d.UserID),
		Preferences:   d.Preferences,
		ViewedLaptops: make([]core.ViewedLaptop, 0, len(d.ViewedLaptops)),
		SavedLaptops:  make([]core.SavedLaptop, 0, len(d.SavedLaptops)),
		LastUpdated:   d.LastUpdated,
	}
	for _, v := range d.ViewedLaptops {
		pref.ViewedLaptops = append(pref.ViewedLaptops, core.ViewedLaptop{
			LaptopID: idString(v.LaptopID),
			ViewedAt: v.ViewedAt,
			Rating:   v.Rating,
		})
	}
	for _, s := range d.SavedLaptops {
		pref.SavedLaptops = append(pref.SavedLaptops, core.SavedLaptop{
			LaptopID: idString(s.LaptopID),
			SavedAt:  s.SavedAt,
			Note:     s.Note,
		})
	}
	return pref
}

// idString 把 ObjectID / 字符串 / 其他标量统一转为字符串。
func idString(v any) string {
	switch id := v.(type) {
	case nil:
		return ""
	case bson.ObjectID:
		return id.Hex()
	case string:
		return id
	default:
		return fmt.Sprint(id)
	}
}

// idValue 是写入时使用的 ID：合法的 24 位 hex 按 ObjectID 存储。
func idValue(id string) any {
	if oid, err := bson.ObjectIDFromHex(id); err == nil {
		return oid
	}
	return id
}

// idValues 返回 ID 可能的存储形式。
func idValues(id string) bson.A {
	if oid, err := bson.ObjectIDFromHex(id); err == nil {
		return bson.A{oid, id}
	}
	return bson.A{id}
}

func idFilter(id string) bson.D {
	return bson.D{{Key: "$in", Value: idValues(id)}}
}

var (
	_ core.Catalog             = (*MongoCatalog)(nil)
	_ core.InteractionRecorder = (*MongoCatalog)(nil)
)
