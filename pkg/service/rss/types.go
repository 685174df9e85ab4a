package rss

import (
	"encoding/xml"
	"time"
)

// Item 是 RSS 中的一个条目
type Item struct {
	Title       string   `xml:"title" json:"title"`
	Link        string   `xml:"link" json:"link"`
	GUID        GUID     `xml:"guid" json:"guid"`
	PubDate     string   `xml:"pubDate" json:"pubDate"`
	Description string   `xml:"description,omitempty" json:"description,omitempty"`
	Author      string   `xml:"author,omitempty" json:"author,omitempty"`
	Categories  []string `xml:"category,omitempty" json:"categories,omitempty"`
}

// GUID 条目的唯一标识，始终使用文章的永久链接
type GUID struct {
	IsPermaLink bool   `xml:"isPermaLink,attr" json:"isPermaLink"`
	Value       string `xml:",chardata" json:"value"`
}

// AtomLink 是频道的自引用链接
type AtomLink struct {
	Href string `xml:"href,attr" json:"href"`
	Rel  string `xml:"rel,attr" json:"rel"`
	Type string `xml:"type,attr" json:"type"`
}

// Channel RSS 频道
type Channel struct {
	Title         string   `xml:"title" json:"title"`
	Link          string   `xml:"link" json:"link"`
	Description   string   `xml:"description" json:"description"`
	Language      string   `xml:"language" json:"language"`
	LastBuildDate string   `xml:"lastBuildDate" json:"lastBuildDate"`
	AtomLink      AtomLink `xml:"atom:link" json:"atomLink"`
	Items         []Item   `xml:"item" json:"items"`
}

// Feed 是 RSS 2.0 文档的根元素
type Feed struct {
	XMLName xml.Name  `xml:"rss" json:"-"`
	Version string    `xml:"version,attr" json:"version"`
	AtomNS  string    `xml:"xmlns:atom,attr" json:"atomNs"`
	Channel Channel   `xml:"channel" json:"channel"`
	BuiltAt time.Time `xml:"-" json:"builtAt"`
}

// Options 生成选项
type Options struct {
	// ItemCount 返回的文章数量
	ItemCount int
	// BaseURL 站点基础 URL，不带末尾斜杠
	BaseURL string
	// BuildTime Feed 构建时间
	BuildTime time.Time
}
