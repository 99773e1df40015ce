package models

import (
	"encoding/json"
	"fmt"
)

// 字段缺失时的默认值
// 注意: 与原站点条目结构对应,缺失字段不视为错误,填充默认值后继续
const (
	DefaultAuthor    = "Unknown"    // 作者缺失
	DefaultContent   = "No content" // 正文缺失
	DefaultDate      = "No date"    // 日期缺失
	DefaultFavorites = "0"          // 收藏数缺失
)

// Entry 单条条目记录
// 从话题页面的条目节点提取,构建后不再修改
type Entry struct {
	// Author 作者用户名 (data-author属性)
	Author string `json:"username"`

	// Content 条目正文 (content子元素文本,去除首尾空白)
	Content string `json:"entry"`

	// Date 发表日期 (permalink子元素文本,去除首尾空白)
	Date string `json:"date"`

	// Favorites 收藏数 (data-favorite-count属性,保留字符串形式)
	Favorites string `json:"favorites"`
}

// NewEntry 创建条目记录,空字段填充默认值
func NewEntry(author, content, date, favorites string) Entry {
	if author == "" {
		author = DefaultAuthor
	}
	if content == "" {
		content = DefaultContent
	}
	if date == "" {
		date = DefaultDate
	}
	if favorites == "" {
		favorites = DefaultFavorites
	}
	return Entry{
		Author:    author,
		Content:   content,
		Date:      date,
		Favorites: favorites,
	}
}

// String 用于日志的摘要表示
func (e Entry) String() string {
	content := e.Content
	if len(content) > 40 {
		content = content[:40] + "..."
	}
	return fmt.Sprintf("%s: %s (%s, ❤%s)", e.Author, content, e.Date, e.Favorites)
}

// ToJSON 序列化为JSON
func (e Entry) ToJSON() ([]byte, error) {
	return json.Marshal(e)
}
