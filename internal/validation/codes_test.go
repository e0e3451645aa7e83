package validation

import (
	"reflect"
	"testing"
)

func TestResolveMessageCodesObject(t *testing.T) {
	t.Parallel()

	got := ResolveMessageCodes("required", "item")
	want := []string{"required.item", "required"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ResolveMessageCodes = %v, want %v", got, want)
	}
}

func TestResolveFieldMessageCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		code      string
		object    string
		field     string
		fieldType string
		want      []string
	}{
		{
			name:      "full chain",
			code:      "required",
			object:    "item",
			field:     "itemName",
			fieldType: "string",
			want:      []string{"required.item.itemName", "required.itemName", "required.string", "required"},
		},
		{
			name:      "type mismatch on int",
			code:      "typeMismatch",
			object:    "user",
			field:     "age",
			fieldType: "int",
			want:      []string{"typeMismatch.user.age", "typeMismatch.age", "typeMismatch.int", "typeMismatch"},
		},
		{
			name:   "no field type",
			code:   "max",
			object: "item",
			field:  "quantity",
			want:   []string{"max.item.quantity", "max.quantity", "max"},
		},
		{
			name: "empty code",
			code: "",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveFieldMessageCodes(tt.code, tt.object, tt.field, tt.fieldType)
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ResolveFieldMessageCodes(%q, %q, %q, %q) = %v, want %v", tt.code, tt.object, tt.field, tt.fieldType, got, tt.want)
			}
		})
	}
}
