// 手动初始化商店与课程目录脚本
//
// 新环境部署后执行一次，把商店商品和带自定义奖励的课程写入文档存储。
// 已存在的文档会被覆盖。
//
// 用法: go run scripts/seed_catalog.go

package main

import (
	"context"
	"finstar_backend/internal/config"
	"finstar_backend/internal/repository"
	"finstar_backend/pkg/database"
	"finstar_backend/pkg/docstore"
	"finstar_backend/pkg/gcp"
	"log"
)

var storeItems = []map[string]any{
	{"name": "Golden Piggy Avatar", "itemType": "avatar", "price": int64(150)},
	{"name": "Bull Market Avatar", "itemType": "avatar", "price": int64(200)},
	{"name": "Midnight Theme", "itemType": "theme", "price": int64(300)},
	{"name": "Mint Theme", "itemType": "theme", "price": int64(250)},
	{"name": "Streak Shield", "itemType": "powerup", "price": int64(500)},
	{"name": "Double XP Boost", "itemType": "powerup", "price": int64(400)},
}

var storeItemIDs = []string{
	"avatar_piggy",
	"avatar_bull",
	"theme_midnight",
	"theme_mint",
	"powerup_streak_shield",
	"powerup_double_xp",
}

var lessons = map[string]map[string]any{
	"compound_interest_deep_dive": {
		"title":      "Compound Interest Deep Dive",
		"xpReward":   int64(120),
		"coinReward": int64(40),
	},
	"intro_to_index_funds": {
		"title":      "Intro to Index Funds",
		"xpReward":   int64(80),
		"coinReward": int64(25),
	},
}

func main() {
	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var store docstore.Store
	switch cfg.Store.Backend {
	case "sql":
		db, err := database.InitDB(&cfg.Database)
		if err != nil {
			log.Fatalf("Failed to connect database: %v", err)
		}
		store, err = docstore.NewSQLStore(db)
		if err != nil {
			log.Fatalf("Failed to open sql store: %v", err)
		}
	case "memory":
		log.Fatal("memory backend has nothing to seed")
	case "sdk":
		store, err = docstore.NewSDKStore(context.Background(), cfg.Firebase.ProjectID)
		if err != nil {
			log.Fatalf("Failed to open sdk store: %v", err)
		}
	default:
		store, err = docstore.NewRESTStore(gcp.ServiceAccount{
			ProjectID:   cfg.Firebase.ProjectID,
			ClientEmail: cfg.Firebase.ClientEmail,
			PrivateKey:  cfg.Firebase.PrivateKey,
		})
		if err != nil {
			log.Fatalf("Failed to open rest store: %v", err)
		}
	}

	ctx := context.Background()
	for i, item := range storeItems {
		if err := store.Set(ctx, repository.StoreItemPath(storeItemIDs[i]), item); err != nil {
			log.Fatalf("Failed to seed store item %s: %v", storeItemIDs[i], err)
		}
	}
	log.Printf("Seeded %d store items", len(storeItems))

	for id, lesson := range lessons {
		if err := store.Set(ctx, repository.LessonPath(id), lesson); err != nil {
			log.Fatalf("Failed to seed lesson %s: %v", id, err)
		}
	}
	log.Printf("Seeded %d lessons", len(lessons))
}
