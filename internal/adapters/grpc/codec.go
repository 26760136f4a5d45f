package grpc

import (
	"fmt"

	"google.golang.org/protobuf/types/known/structpb"

	"github.com/andrescamacho/orbit-go/internal/domain/config"
)

// toStruct converts a config map into a protobuf Struct
func toStruct(v config.Value) (*structpb.Struct, error) {
	if !v.IsMap() {
		return nil, fmt.Errorf("expected a mapping, got %s", v.Kind())
	}
	m, _ := v.ToAny().(map[string]interface{})
	return structpb.NewStruct(m)
}

// fromStruct converts a protobuf Struct into a config map. Numbers arrive
// as float64.
func fromStruct(s *structpb.Struct) (config.Value, error) {
	if s == nil {
		return config.EmptyMap(), nil
	}
	return config.FromAny(s.AsMap())
}

func stringField(s *structpb.Struct, key string) string {
	if s == nil {
		return ""
	}
	if v, ok := s.Fields[key]; ok {
		return v.GetStringValue()
	}
	return ""
}

func boolField(s *structpb.Struct, key string) bool {
	if s == nil {
		return false
	}
	if v, ok := s.Fields[key]; ok {
		return v.GetBoolValue()
	}
	return false
}

func structField(s *structpb.Struct, key string) (*structpb.Struct, bool) {
	if s == nil {
		return nil, false
	}
	v, ok := s.Fields[key]
	if !ok || v.GetStructValue() == nil {
		return nil, false
	}
	return v.GetStructValue(), true
}

func stringList(s *structpb.Struct, key string) []string {
	if s == nil {
		return nil
	}
	v, ok := s.Fields[key]
	if !ok || v.GetListValue() == nil {
		return nil
	}
	var out []string
	for _, item := range v.GetListValue().Values {
		out = append(out, item.GetStringValue())
	}
	return out
}
