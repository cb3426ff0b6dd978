package setting

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"

	"github.com/zintix-labs/qplant/errs"
	"gopkg.in/yaml.v3"
)

// GetLabSettingByYAML
// 會讀取 YAML 設定、補預設值並執行基本檢查後回傳。
//
// 未知欄位（多寫/拼錯）視為錯誤。
func GetLabSettingByYAML(data []byte) (*LabSetting, error) {
	ls := &LabSetting{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(ls); err != nil && !errors.Is(err, io.EOF) {
		return nil, errs.Wrap(err, "failed to unmarshall yaml")
	}

	// 設定檔初始化
	if err := ls.init(); err != nil {
		return nil, errs.Wrap(err, "lab setting initialized err")
	}

	return ls, nil
}

// GetLabSettingByJSON
// 會讀取 Json 設定、補預設值並執行基本檢查後回傳
func GetLabSettingByJSON(data []byte) (*LabSetting, error) {
	ls := &LabSetting{}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(ls); err != nil {
		return nil, errs.Wrap(err, "can not unmarshall json byte")
	}

	// 設定檔初始化
	if err := ls.init(); err != nil {
		return nil, errs.Wrap(err, "lab setting initialized err")
	}

	return ls, nil
}

// Marshal 以 YAML 輸出目前設定
func (ls *LabSetting) Marshal() ([]byte, error) {
	bs, err := yaml.Marshal(ls)
	if err != nil {
		return nil, errs.Wrap(err, "marshal lab setting")
	}
	return bs, nil
}
