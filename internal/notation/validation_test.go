package notation

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"sanity-yaml/internal/source"
)

func TestParseValidation(t *testing.T) {
	tests := []struct {
		name      string
		key       string
		value     *source.Value
		wantRules []string
		wantName  string
	}{
		{"no markers", "title", source.String("string"), nil, "title"},
		{"required suffix", "title!", source.String("string"), []string{"required()"}, "title"},
		{"annotation", "date", source.String("datetime | max(4)"), []string{"max(4)"}, "date"},
		{"annotation and required", "date!", source.String("datetime | max(4)"), []string{"max(4)", "required()"}, "date"},
		{"rule prefix stripped", "n", source.String("number | Rule.min(1)"), []string{"min(1)"}, "n"},
		{"required already annotated", "n!", source.String("number | required()"), []string{"required()"}, "n"},
		{"array name keeps suffix", "tags[]!", source.String("string"), []string{"required()"}, "tags[]"},
		{"mapping value", "seo!", source.Map(), []string{"required()"}, "seo"},
		{"options pipe ignored", "level", source.String("string(a|b)"), nil, "level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, name := ParseValidation(tt.key, tt.value)
			assert.Equal(t, tt.wantName, name)

			if tt.wantRules == nil {
				assert.Nil(t, v)
				return
			}

			if assert.NotNil(t, v) {
				assert.Equal(t, tt.wantRules, v.Rules)
			}
		})
	}
}
