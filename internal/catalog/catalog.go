// Package catalog 内置演示类型：服务启动时默认注册的生成目标。
// 部署方可通过显式 Schema 定义 API 注册任意自定义类型，本包仅提供开箱即用的样例。
package catalog

import (
	appschema "schemaforge-api/internal/application/schema"
)

// Rarity 物品稀有度，封闭取值集
type Rarity int

const (
	RarityCommon Rarity = iota
	RarityUncommon
	RarityRare
	RarityEpic
	RarityLegendary
)

var rarityNames = []string{"Common", "Uncommon", "Rare", "Epic", "Legendary"}

func (r Rarity) EnumNames() []string { return rarityNames }

// String 取值名，越界返回 Common
func (r Rarity) String() string {
	if r < 0 || int(r) >= len(rarityNames) {
		return rarityNames[0]
	}
	return rarityNames[int(r)]
}

// Item 游戏物品
type Item struct {
	Name        string   `json:"name" gen:"required" desc:"物品名称，需独特且符合奇幻世界观"`
	Description string   `json:"description" desc:"一到两句的物品描述"`
	Rarity      Rarity   `json:"rarity" desc:"稀有度"`
	Value       int      `json:"value" range:"1,10000" desc:"金币价值"`
	Weight      float64  `json:"weight" min:"0.1" desc:"重量（千克）"`
	Tags        []string `json:"tags" desc:"分类标签"`
	Stackable   bool     `json:"stackable" desc:"是否可堆叠"`
}

// NPC 非玩家角色
type NPC struct {
	Name       string `json:"name" gen:"required" desc:"角色姓名"`
	Occupation string `json:"occupation" desc:"职业"`
	Age        int    `json:"age" range:"16,120" desc:"年龄"`
	Backstory  string `json:"backstory" desc:"两到三句的背景故事"`
	Hostile    bool   `json:"hostile" desc:"是否敌对"`
}

// Quest 任务
type Quest struct {
	Title       string   `json:"title" gen:"required" desc:"任务标题"`
	Summary     string   `json:"summary" desc:"任务概要"`
	Objectives  []string `json:"objectives" desc:"目标列表，二至四条"`
	RewardGold  int      `json:"reward_gold" min:"0" desc:"金币奖励"`
	Difficulty  string   `json:"difficulty" gen:"enum=Easy|Normal|Hard|Deadly" desc:"难度"`
	Repeatable  bool     `json:"repeatable" desc:"是否可重复"`
	GiverName   string   `json:"giver_name" desc:"发布任务的 NPC 姓名"`
}

// Register 将内置类型注册到注册表
func Register(reg *appschema.Registry) error {
	for _, prototype := range []any{Item{}, NPC{}, Quest{}} {
		if _, err := reg.RegisterType(prototype); err != nil {
			return err
		}
	}
	return nil
}
