package model

// Pillar 是一柱干支。
type Pillar struct {
	TianGan string `json:"tianGan"`
	DiZhi   string `json:"diZhi"`
}

// BaZi 是年月日时四柱。
type BaZi struct {
	YearPillar  Pillar `json:"yearPillar"`
	MonthPillar Pillar `json:"monthPillar"`
	DayPillar   Pillar `json:"dayPillar"`
	HourPillar  Pillar `json:"hourPillar"`
}

// WuXingStats 统计四柱八字中五行出现的次数，总和恒为 8。
type WuXingStats map[string]int

// Sum 返回五行计数总和。
func (s WuXingStats) Sum() int {
	total := 0
	for _, n := range s {
		total += n
	}
	return total
}

// LunarDate 是农历日期，月份为负数表示闰月。
type LunarDate struct {
	Year   int  `json:"year"`
	Month  int  `json:"month"`
	Day    int  `json:"day"`
	IsLeap bool `json:"isLeap"`
}

// MingPan 是完整的命盘信息，由出生信息推算得出，生成后不可变。
type MingPan struct {
	UserInfo    UserInfo    `json:"userInfo"`
	LunarDate   LunarDate   `json:"lunarDate"`
	BaZi        BaZi        `json:"baZi"`
	BaZiString  string      `json:"baZiString"` // 四柱文字形式，如 "甲子 乙丑 丙寅 丁卯"
	WuXingStats WuXingStats `json:"wuXingStats"`
	DayMaster   string      `json:"dayMaster"` // 日主，即日柱天干
}

// Valid 校验命盘是否携带所有必需的子结构。
func (m *MingPan) Valid() bool {
	if m == nil {
		return false
	}
	if m.UserInfo.Name == "" && m.UserInfo.BirthDate == "" {
		return false
	}
	if m.BaZiString == "" || m.DayMaster == "" {
		return false
	}
	if m.BaZi.DayPillar.TianGan == "" {
		return false
	}
	if m.LunarDate.Year == 0 {
		return false
	}
	if len(m.WuXingStats) == 0 {
		return false
	}
	return true
}
