package incident

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDropsReservedFields(t *testing.T) {
	inc := New(3, map[string]interface{}{"title": "db down", "issue_number": 99, "_id": "abc"})
	require.Equal(t, int64(3), inc.IssueNumber)
	require.Equal(t, map[string]interface{}{"title": "db down"}, inc.Attributes)
}

func TestFromDocumentAcceptsStoreNumberTypes(t *testing.T) {
	for _, raw := range []interface{}{int32(4), int64(4), 4, float64(4), json.Number("4")} {
		inc, err := FromDocument(map[string]interface{}{"issue_number": raw, "status": "open"})
		require.NoError(t, err, "type %T", raw)
		require.Equal(t, int64(4), inc.IssueNumber)
		require.Equal(t, "open", inc.Attributes["status"])
	}

	_, err := FromDocument(map[string]interface{}{"status": "open"})
	require.Error(t, err)
	_, err = FromDocument(map[string]interface{}{"issue_number": 1.5})
	require.Error(t, err)
	_, err = FromDocument(map[string]interface{}{"issue_number": "1"})
	require.Error(t, err)
}

func TestMarshalJSONFlattensAttributes(t *testing.T) {
	inc := &Incident{IssueNumber: 1, Attributes: map[string]interface{}{"title": "server down", "issue_number": 42}}
	b, err := json.Marshal(inc)
	require.NoError(t, err)
	require.JSONEq(t, `{"title":"server down","issue_number":1}`, string(b))

	var back Incident
	require.NoError(t, json.Unmarshal(b, &back))
	require.Equal(t, int64(1), back.IssueNumber)
	require.Equal(t, "server down", back.Attributes["title"])
}

func TestCloneIsIndependent(t *testing.T) {
	inc := New(2, map[string]interface{}{"status": "open"})
	cp := inc.Clone()
	cp.Attributes["status"] = "resolved"
	require.Equal(t, "open", inc.Attributes["status"])
}

func TestFromStoredDocumentKeepsRowsWithoutValidNumber(t *testing.T) {
	inc := FromStoredDocument(map[string]interface{}{"issue_number": int32(5), "title": "ok"})
	require.Equal(t, int64(5), inc.IssueNumber)
	require.NotContains(t, inc.Attributes, "issue_number")

	legacy := FromStoredDocument(map[string]interface{}{"issue_number": "7", "title": "legacy"})
	require.Equal(t, int64(0), legacy.IssueNumber)
	b, err := json.Marshal(legacy)
	require.NoError(t, err)
	require.JSONEq(t, `{"issue_number":"7","title":"legacy"}`, string(b))

	missing := FromStoredDocument(map[string]interface{}{"title": "no number"})
	b, err = json.Marshal(missing)
	require.NoError(t, err)
	require.JSONEq(t, `{"title":"no number"}`, string(b))

	zero := FromStoredDocument(map[string]interface{}{"issue_number": int64(0)})
	require.Equal(t, int64(0), zero.Attributes["issue_number"])
}
