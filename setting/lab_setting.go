package setting

import (
	"fmt"
	"math"

	"github.com/zintix-labs/qplant/encoding"
	"github.com/zintix-labs/qplant/engine"
	"github.com/zintix-labs/qplant/errs"
)

// LabSetting 包含啟動一個 Lab 所需的所有高階設定。
type LabSetting struct {
	Mode     engine.Mode    `yaml:"mode"      json:"mode"`
	Backend  string         `yaml:"backend"   json:"backend"`
	Shots    int            `yaml:"shots"     json:"shots"`
	Seed     int64          `yaml:"seed"      json:"seed"`
	Channels ChannelSetting `yaml:"channels"  json:"channels"`
	Dataset  DatasetSetting `yaml:"dataset"   json:"dataset"`
}

// ChannelSetting 量測通道設定
type ChannelSetting struct {
	PH       PHSetting       `yaml:"ph"        json:"ph"`
	Nitrogen NitrogenSetting `yaml:"nitrogen"  json:"nitrogen"`
}

type PHSetting struct {
	Center    float64 `yaml:"center"      json:"center"`
	HalfWidth float64 `yaml:"half_width"  json:"half_width"`
}

type NitrogenSetting struct {
	MaxRef float64 `yaml:"max_ref"  json:"max_ref"`
}

// DatasetSetting 樣本資料設定；Path 相對於 Lab 的資料 FS
type DatasetSetting struct {
	Path    string `yaml:"path"     json:"path"`
	Samples int    `yaml:"samples"  json:"samples"`
	Seed    int64  `yaml:"seed"     json:"seed"`
}

// Default 回傳所有欄位皆為預設值的設定
func Default() *LabSetting {
	ls := &LabSetting{}
	_ = ls.init()
	return ls
}

// PHChannel 回傳 pH 通道
func (ls *LabSetting) PHChannel() encoding.Channel {
	ch := encoding.PH()
	ch.Center = ls.Channels.PH.Center
	ch.HalfWidth = ls.Channels.PH.HalfWidth
	return ch
}

// NitrogenChannel 回傳氮通道
func (ls *LabSetting) NitrogenChannel() encoding.Channel {
	return encoding.Nitrogen(ls.Channels.Nitrogen.MaxRef)
}

// EngineOptions 轉成 engine.Resolve 的輸入
func (ls *LabSetting) EngineOptions() engine.Options {
	return engine.Options{
		Mode:    ls.Mode,
		Backend: ls.Backend,
		Shots:   ls.Shots,
		Seed:    ls.Seed,
	}
}

// init 補預設值後檢查
func (ls *LabSetting) init() error {
	if ls.Backend == "" {
		ls.Backend = engine.DefaultBackend
	}
	if ls.Shots == 0 {
		ls.Shots = engine.DefaultShots
	}
	// center 0 是合法值，只有 half_width 未設定時才整組補預設
	if ls.Channels.PH.HalfWidth == 0 && ls.Channels.PH.Center == 0 {
		ls.Channels.PH.Center = encoding.PHCenter
		ls.Channels.PH.HalfWidth = encoding.PHHalfWidth
	}
	if ls.Channels.Nitrogen.MaxRef == 0 {
		ls.Channels.Nitrogen.MaxRef = encoding.DefaultNitrogenMax
	}
	return ls.valid()
}

// valid 執行最基本的設定檔檢查
func (ls *LabSetting) valid() error {
	switch ls.Mode {
	case engine.ModeAuto, engine.ModeClosedForm, engine.ModeSimulated:
	default:
		return errs.NewFatal(fmt.Sprintf("invalid mode: %d", ls.Mode))
	}
	if ls.Shots < 1 {
		return errs.NewFatal(fmt.Sprintf("shots must be positive, got %d", ls.Shots))
	}
	if err := ls.PHChannel().Valid(); err != nil {
		return err
	}
	n := ls.Channels.Nitrogen.MaxRef
	if !(n > 0) || math.IsInf(n, 0) {
		return errs.NewFatal(fmt.Sprintf("channel \"nitrogen\": max_ref must be a positive finite number, got %v", n))
	}
	if ls.Dataset.Samples < 0 {
		return errs.NewFatal(fmt.Sprintf("dataset samples must not be negative, got %d", ls.Dataset.Samples))
	}
	return nil
}
