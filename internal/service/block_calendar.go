package service

import (
	"errors"
	"time"

	"github.com/stypcanto/mini-proyecto-cenate-sub008/config"
)

// ── 排班单元格校验错误 ──

var (
	ErrInvalidBlock    = errors.New("时段不在配置的枚举集合内")
	ErrInvalidDate     = errors.New("排班日期格式无效")
	ErrDateOutOfWindow = errors.New("排班日期早于当前日期")
)

const cellDateLayout = "2006-01-02"

// ValidCell 通过校验并归一化后的排班单元格
type ValidCell struct {
	Date  time.Time
	Block string
}

// BlockCalendar 排班单元格的纯校验器
// 时段集合与周期窗口开关来自配置，不依赖任何存储
type BlockCalendar struct {
	blocks        map[string]struct{}
	enforceWindow bool
}

// NewBlockCalendar 根据业务配置构建校验器
func NewBlockCalendar(cfg *config.ShiftConfig) *BlockCalendar {
	blocks := make(map[string]struct{}, len(cfg.Blocks))
	for _, b := range cfg.Blocks {
		blocks[b] = struct{}{}
	}
	return &BlockCalendar{
		blocks:        blocks,
		enforceWindow: cfg.EnforcePeriodWindow,
	}
}

// ValidateCell 校验并归一化一个 (日期, 时段) 单元格
// 日期必须是合法的 "2006-01-02"；时段必须在枚举集合内；
// 开启周期窗口时，早于当天的日期被拒绝
func (c *BlockCalendar) ValidateCell(date, block string) (*ValidCell, error) {
	if _, ok := c.blocks[block]; !ok {
		return nil, ErrInvalidBlock
	}

	d, err := time.Parse(cellDateLayout, date)
	if err != nil {
		return nil, ErrInvalidDate
	}

	if c.enforceWindow {
		today := time.Now().Truncate(24 * time.Hour)
		if d.Before(today) {
			return nil, ErrDateOutOfWindow
		}
	}

	return &ValidCell{Date: d, Block: block}, nil
}
