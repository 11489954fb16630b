// Package bazi 负责将出生信息推算为命盘（四柱、五行、农历）。
// 历法换算由 lunar-go 完成，本包只做校验、查表和组装。
package bazi

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"linglong-go/internal/model"

	"github.com/6tail/lunar-go/calendar"
)

// ShiChenList 是十二时辰选项表，用于录入表单。
var ShiChenList = []model.ShiChen{
	{Name: "子", Label: "子时", Range: "23:00-00:59"},
	{Name: "丑", Label: "丑时", Range: "01:00-02:59"},
	{Name: "寅", Label: "寅时", Range: "03:00-04:59"},
	{Name: "卯", Label: "卯时", Range: "05:00-06:59"},
	{Name: "辰", Label: "辰时", Range: "07:00-08:59"},
	{Name: "巳", Label: "巳时", Range: "09:00-10:59"},
	{Name: "午", Label: "午时", Range: "11:00-12:59"},
	{Name: "未", Label: "未时", Range: "13:00-14:59"},
	{Name: "申", Label: "申时", Range: "15:00-16:59"},
	{Name: "酉", Label: "酉时", Range: "17:00-18:59"},
	{Name: "戌", Label: "戌时", Range: "19:00-20:59"},
	{Name: "亥", Label: "亥时", Range: "21:00-22:59"},
}

// 天干五行对应
var tianGanWuXing = map[string]string{
	"甲": "木", "乙": "木",
	"丙": "火", "丁": "火",
	"戊": "土", "己": "土",
	"庚": "金", "辛": "金",
	"壬": "水", "癸": "水",
}

// 地支五行对应
var diZhiWuXing = map[string]string{
	"子": "水", "丑": "土",
	"寅": "木", "卯": "木",
	"辰": "土", "巳": "火",
	"午": "火", "未": "土",
	"申": "金", "酉": "金",
	"戌": "土", "亥": "水",
}

// 时辰对应的代表小时，用于历法换算
var shiChenHour = map[string]int{
	"子": 0, "丑": 2, "寅": 4, "卯": 6,
	"辰": 8, "巳": 10, "午": 12, "未": 14,
	"申": 16, "酉": 18, "戌": 20, "亥": 22,
}

var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// 出生数据校验错误
var (
	ErrBadDateFormat = errors.New("出生日期格式不正确，请使用 YYYY-MM-DD 格式（如：1990-05-15）")
	ErrYearRange     = errors.New("出生年份需在 1900 年至 2100 年之间")
	ErrMonthRange    = errors.New("出生月份需在 1 至 12 之间")
	ErrDayRange      = errors.New("出生日期需在 1 至 31 之间")
	ErrBadShiChen    = errors.New("出生时辰无效，请选择子、丑、寅、卯、辰、巳、午、未、申、酉、戌、亥中的一项")
)

// Calculate 根据出生信息计算命盘。出生数据非法时返回上述校验错误之一。
func Calculate(userInfo model.UserInfo) (*model.MingPan, error) {
	if !dateRegex.MatchString(userInfo.BirthDate) {
		return nil, ErrBadDateFormat
	}
	parts := strings.Split(userInfo.BirthDate, "-")
	year, _ := strconv.Atoi(parts[0])
	month, _ := strconv.Atoi(parts[1])
	day, _ := strconv.Atoi(parts[2])
	if year < 1900 || year > 2100 {
		return nil, ErrYearRange
	}
	if month < 1 || month > 12 {
		return nil, ErrMonthRange
	}
	if day < 1 || day > 31 {
		return nil, ErrDayRange
	}
	hour, ok := shiChenHour[userInfo.BirthTime]
	if !ok {
		return nil, ErrBadShiChen
	}

	solar := calendar.NewSolar(year, month, day, hour, 0, 0)
	lunar := solar.GetLunar()
	eightChar := lunar.GetEightChar()

	baZi := model.BaZi{
		YearPillar:  model.Pillar{TianGan: eightChar.GetYearGan(), DiZhi: eightChar.GetYearZhi()},
		MonthPillar: model.Pillar{TianGan: eightChar.GetMonthGan(), DiZhi: eightChar.GetMonthZhi()},
		DayPillar:   model.Pillar{TianGan: eightChar.GetDayGan(), DiZhi: eightChar.GetDayZhi()},
		HourPillar:  model.Pillar{TianGan: eightChar.GetTimeGan(), DiZhi: eightChar.GetTimeZhi()},
	}

	return &model.MingPan{
		UserInfo: userInfo,
		LunarDate: model.LunarDate{
			Year:   lunar.GetYear(),
			Month:  lunar.GetMonth(),
			Day:    lunar.GetDay(),
			IsLeap: lunar.GetMonth() < 0, // 负数表示闰月
		},
		BaZi:        baZi,
		BaZiString:  formatBaZiString(baZi),
		WuXingStats: calculateWuXingStats(baZi),
		DayMaster:   baZi.DayPillar.TianGan,
	}, nil
}

// calculateWuXingStats 统计四柱天干地支的五行，每柱两个，总和为 8。
func calculateWuXingStats(baZi model.BaZi) model.WuXingStats {
	stats := model.WuXingStats{"金": 0, "木": 0, "水": 0, "火": 0, "土": 0}
	pillars := []model.Pillar{baZi.YearPillar, baZi.MonthPillar, baZi.DayPillar, baZi.HourPillar}
	for _, p := range pillars {
		if wx, ok := tianGanWuXing[p.TianGan]; ok {
			stats[wx]++
		}
		if wx, ok := diZhiWuXing[p.DiZhi]; ok {
			stats[wx]++
		}
	}
	return stats
}

func formatBaZiString(baZi model.BaZi) string {
	return strings.Join([]string{
		baZi.YearPillar.TianGan + baZi.YearPillar.DiZhi,
		baZi.MonthPillar.TianGan + baZi.MonthPillar.DiZhi,
		baZi.DayPillar.TianGan + baZi.DayPillar.DiZhi,
		baZi.HourPillar.TianGan + baZi.HourPillar.DiZhi,
	}, " ")
}

// TianGanWuXing 返回天干对应的五行。
func TianGanWuXing(tianGan string) string {
	return tianGanWuXing[tianGan]
}

// DiZhiWuXing 返回地支对应的五行。
func DiZhiWuXing(diZhi string) string {
	return diZhiWuXing[diZhi]
}

var lunarMonthNames = []string{"正", "二", "三", "四", "五", "六", "七", "八", "九", "十", "冬", "腊"}

var lunarDayNames = []string{
	"初一", "初二", "初三", "初四", "初五", "初六", "初七", "初八", "初九", "初十",
	"十一", "十二", "十三", "十四", "十五", "十六", "十七", "十八", "十九", "二十",
	"廿一", "廿二", "廿三", "廿四", "廿五", "廿六", "廿七", "廿八", "廿九", "三十",
}

// FormatLunarDate 将农历日期格式化为 "1990年闰五月初五" 形式。
func FormatLunarDate(d model.LunarDate) string {
	monthIndex := d.Month
	if monthIndex < 0 {
		monthIndex = -monthIndex
	}
	monthIndex--
	dayIndex := d.Day - 1
	if monthIndex < 0 || monthIndex >= len(lunarMonthNames) || dayIndex < 0 || dayIndex >= len(lunarDayNames) {
		return fmt.Sprintf("%d年%d月%d日", d.Year, d.Month, d.Day)
	}
	leapPrefix := ""
	if d.IsLeap {
		leapPrefix = "闰"
	}
	return fmt.Sprintf("%d年%s%s月%s", d.Year, leapPrefix, lunarMonthNames[monthIndex], lunarDayNames[dayIndex])
}
