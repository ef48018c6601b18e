package docstore

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// 文档字段在 REST 协议中的 Value 编码，见
// https://firestore.googleapis.com/$discovery 的 Value 定义。
// 整数在线上表示为字符串形式的 integerValue。

func encodeFields(data map[string]any) map[string]any {
	out := make(map[string]any, len(data))
	for k, v := range data {
		out[k] = encodeValue(v)
	}
	return out
}

func encodeValue(v any) map[string]any {
	switch x := v.(type) {
	case nil:
		return map[string]any{"nullValue": nil}
	case bool:
		return map[string]any{"booleanValue": x}
	case int:
		return map[string]any{"integerValue": strconv.FormatInt(int64(x), 10)}
	case int32:
		return map[string]any{"integerValue": strconv.FormatInt(int64(x), 10)}
	case int64:
		return map[string]any{"integerValue": strconv.FormatInt(x, 10)}
	case float32:
		return map[string]any{"doubleValue": float64(x)}
	case float64:
		return map[string]any{"doubleValue": x}
	case string:
		return map[string]any{"stringValue": x}
	case time.Time:
		return map[string]any{"timestampValue": x.UTC().Format(time.RFC3339Nano)}
	case []any:
		values := make([]any, 0, len(x))
		for _, el := range x {
			values = append(values, encodeValue(el))
		}
		return map[string]any{"arrayValue": map[string]any{"values": values}}
	case []string:
		values := make([]any, 0, len(x))
		for _, el := range x {
			values = append(values, encodeValue(el))
		}
		return map[string]any{"arrayValue": map[string]any{"values": values}}
	case map[string]any:
		return map[string]any{"mapValue": map[string]any{"fields": encodeFields(x)}}
	default:
		// 结构体等其余类型先经 JSON 归一化再编码
		raw, err := json.Marshal(v)
		if err != nil {
			panic(fmt.Sprintf("docstore: cannot encode value %T: %v", v, err))
		}
		var plain any
		if err := json.Unmarshal(raw, &plain); err != nil {
			panic(fmt.Sprintf("docstore: cannot normalize value %T: %v", v, err))
		}
		return encodeValue(plain)
	}
}

func decodeFields(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		value, ok := v.(map[string]any)
		if !ok {
			continue
		}
		out[k] = decodeValue(value)
	}
	return out
}

func decodeValue(value map[string]any) any {
	if _, ok := value["nullValue"]; ok {
		return nil
	}
	if v, ok := value["booleanValue"]; ok {
		return v
	}
	if v, ok := value["integerValue"]; ok {
		switch n := v.(type) {
		case string:
			i, _ := strconv.ParseInt(n, 10, 64)
			return i
		case float64:
			return int64(n)
		}
		return int64(0)
	}
	if v, ok := value["doubleValue"]; ok {
		f, _ := asFloat64(v)
		return f
	}
	if v, ok := value["stringValue"]; ok {
		return v
	}
	if v, ok := value["timestampValue"]; ok {
		if s, ok := v.(string); ok {
			if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
				return t
			}
			return s
		}
		return v
	}
	if v, ok := value["arrayValue"]; ok {
		arr, _ := v.(map[string]any)
		rawValues, _ := arr["values"].([]any)
		out := make([]any, 0, len(rawValues))
		for _, el := range rawValues {
			if m, ok := el.(map[string]any); ok {
				out = append(out, decodeValue(m))
			}
		}
		return out
	}
	if v, ok := value["mapValue"]; ok {
		m, _ := v.(map[string]any)
		rawFields, _ := m["fields"].(map[string]any)
		return decodeFields(rawFields)
	}
	return nil
}
