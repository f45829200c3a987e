package json

import (
	jsoniter "github.com/json-iterator/go"
)

var api = jsoniter.ConfigCompatibleWithStandardLibrary

// Marshal 序列化
func Marshal(v interface{}) ([]byte, error) {
	return api.Marshal(v)
}

// MarshalIndent 带缩进的序列化
func MarshalIndent(v interface{}, prefix, indent string) ([]byte, error) {
	return api.MarshalIndent(v, prefix, indent)
}

// Unmarshal 反序列化
func Unmarshal(data []byte, v interface{}) error {
	return api.Unmarshal(data, v)
}

// RawMessage 延迟解析的原始JSON
type RawMessage = jsoniter.RawMessage
