package sitemap

import (
	"encoding/xml"
	"time"
)

// URLSet 站点地图根元素
type URLSet struct {
	XMLName xml.Name `xml:"urlset"`
	Xmlns   string   `xml:"xmlns,attr"`
	URLs    []URL    `xml:"url"`
}

// URL 站点地图URL条目
type URL struct {
	Location     string  `xml:"loc"`
	LastModified string  `xml:"lastmod,omitempty"`
	ChangeFreq   string  `xml:"changefreq,omitempty"`
	Priority     float32 `xml:"priority,omitempty"`
}

// ChangeFrequency 更新频率
type ChangeFrequency string

const (
	ChangeFreqHourly  ChangeFrequency = "hourly"
	ChangeFreqDaily   ChangeFrequency = "daily"
	ChangeFreqWeekly  ChangeFrequency = "weekly"
	ChangeFreqMonthly ChangeFrequency = "monthly"
	ChangeFreqYearly  ChangeFrequency = "yearly"
)

// Item 是生成过程中的一条记录，最后统一转换为 URL
type Item struct {
	Location     string
	LastModified time.Time
	ChangeFreq   ChangeFrequency
	Priority     float32
}

func (i Item) toURL() URL {
	u := URL{Location: i.Location, ChangeFreq: string(i.ChangeFreq), Priority: i.Priority}
	if !i.LastModified.IsZero() {
		u.LastModified = i.LastModified.Format(time.RFC3339)
	}
	return u
}
