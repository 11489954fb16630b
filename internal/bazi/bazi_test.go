package bazi

import (
	"testing"

	"linglong-go/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validUser() model.UserInfo {
	return model.UserInfo{
		Name:      "张三",
		Gender:    model.GenderMale,
		BirthDate: "1990-05-15",
		BirthTime: "午",
	}
}

func TestCalculateKnownChart(t *testing.T) {
	mingPan, err := Calculate(validUser())
	require.NoError(t, err)

	// 1990-05-15 午时：庚午 辛巳 庚辰 壬午
	assert.Equal(t, model.Pillar{TianGan: "庚", DiZhi: "午"}, mingPan.BaZi.YearPillar)
	assert.Equal(t, model.Pillar{TianGan: "辛", DiZhi: "巳"}, mingPan.BaZi.MonthPillar)
	assert.Equal(t, model.Pillar{TianGan: "庚", DiZhi: "辰"}, mingPan.BaZi.DayPillar)
	assert.Equal(t, model.Pillar{TianGan: "壬", DiZhi: "午"}, mingPan.BaZi.HourPillar)

	assert.Equal(t, "庚午 辛巳 庚辰 壬午", mingPan.BaZiString)
	assert.Equal(t, "庚", mingPan.DayMaster)
	assert.Equal(t, 1990, mingPan.LunarDate.Year)
}

func TestCalculateWuXingSumAlwaysEight(t *testing.T) {
	dates := []string{"1900-01-01", "1955-08-23", "1990-05-15", "2000-12-31", "2024-02-29", "2100-12-31"}
	times := []string{"子", "辰", "午", "亥"}
	for _, date := range dates {
		for _, shiChen := range times {
			u := validUser()
			u.BirthDate = date
			u.BirthTime = shiChen
			mingPan, err := Calculate(u)
			require.NoError(t, err, "date=%s time=%s", date, shiChen)
			assert.Equal(t, 8, mingPan.WuXingStats.Sum(), "date=%s time=%s", date, shiChen)
		}
	}
}

func TestCalculateStemBranchInAlphabet(t *testing.T) {
	mingPan, err := Calculate(validUser())
	require.NoError(t, err)

	pillars := []model.Pillar{
		mingPan.BaZi.YearPillar, mingPan.BaZi.MonthPillar,
		mingPan.BaZi.DayPillar, mingPan.BaZi.HourPillar,
	}
	for _, p := range pillars {
		assert.NotEmpty(t, TianGanWuXing(p.TianGan), "未知天干 %q", p.TianGan)
		assert.NotEmpty(t, DiZhiWuXing(p.DiZhi), "未知地支 %q", p.DiZhi)
	}
}

func TestCalculateValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*model.UserInfo)
		wantErr error
	}{
		{"日期格式错误", func(u *model.UserInfo) { u.BirthDate = "1990/05/15" }, ErrBadDateFormat},
		{"日期为空", func(u *model.UserInfo) { u.BirthDate = "" }, ErrBadDateFormat},
		{"年份过早", func(u *model.UserInfo) { u.BirthDate = "1899-05-15" }, ErrYearRange},
		{"年份过晚", func(u *model.UserInfo) { u.BirthDate = "2101-05-15" }, ErrYearRange},
		{"月份越界", func(u *model.UserInfo) { u.BirthDate = "1990-13-15" }, ErrMonthRange},
		{"日越界", func(u *model.UserInfo) { u.BirthDate = "1990-05-32" }, ErrDayRange},
		{"时辰无效", func(u *model.UserInfo) { u.BirthTime = "中午" }, ErrBadShiChen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := validUser()
			tt.mutate(&u)
			_, err := Calculate(u)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestFormatLunarDate(t *testing.T) {
	assert.Equal(t, "1990年四月廿一", FormatLunarDate(model.LunarDate{Year: 1990, Month: 4, Day: 21}))
	assert.Equal(t, "2023年闰二月初一", FormatLunarDate(model.LunarDate{Year: 2023, Month: -2, Day: 1, IsLeap: true}))
	assert.Equal(t, "1995年腊月三十", FormatLunarDate(model.LunarDate{Year: 1995, Month: 12, Day: 30}))
}

func TestShiChenList(t *testing.T) {
	require.Len(t, ShiChenList, 12)
	assert.Equal(t, "子", ShiChenList[0].Name)
	assert.Equal(t, "亥", ShiChenList[11].Name)
	for _, sc := range ShiChenList {
		_, ok := shiChenHour[sc.Name]
		assert.True(t, ok, "时辰 %q 缺少小时映射", sc.Name)
	}
}
