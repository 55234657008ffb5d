package migrations

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScriptsDeclareUniquenessConstraints(t *testing.T) {
	scripts, err := Scripts()
	require.NoError(t, err)
	require.NotEmpty(t, scripts)

	var all strings.Builder
	for _, s := range scripts {
		all.WriteString(s.SQL)
	}
	schema := all.String()

	assert.Contains(t, schema, "visit_cases_citizen_topic_key UNIQUE (citizen_id, topic_id)")
	assert.Contains(t, schema, "visit_cases_code_key UNIQUE (code)")
	assert.Contains(t, schema, "visits_badge_code_key UNIQUE (badge_code)")
}
