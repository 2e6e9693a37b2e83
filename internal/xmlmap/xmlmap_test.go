package xmlmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	cases := map[string]string{
		"RateReply":                  "rate_reply",
		"HighestSeverity":            "highest_severity",
		"v10:RateReplyDetails":       "rate_reply_details",
		"ns:ValidationFailureDetail": "validation_failure_detail",
		"Fault":                      "fault",
		"faultstring":                "faultstring",
		"TotalNetFedExCharge":        "total_net_fed_ex_charge",
		"SSNNumber":                  "ssn_number",
		"post-office":                "post_office",
	}
	for in, want := range cases {
		assert.Equalf(t, want, Key(in), "Key(%q)", in)
	}
}

func TestDecode_SingleAndRepeated(t *testing.T) {
	doc := `<?xml version="1.0"?>
<v10:RateReply xmlns:v10="http://fedex.com/ws/rate/v10">
  <v10:HighestSeverity>SUCCESS</v10:HighestSeverity>
  <v10:RateReplyDetails><v10:ServiceType>FEDEX_GROUND</v10:ServiceType></v10:RateReplyDetails>
  <v10:RateReplyDetails><v10:ServiceType>FEDEX_2_DAY</v10:ServiceType></v10:RateReplyDetails>
  <v10:Notifications><v10:Message>ok</v10:Message></v10:Notifications>
</v10:RateReply>`
	m, err := DecodeBytes([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "SUCCESS", Path(m, "rate_reply.highest_severity"))
	details := List(Path(m, "rate_reply.rate_reply_details"))
	require.Len(t, details, 2)
	d0, ok := Map(details[0])
	require.True(t, ok)
	assert.Equal(t, "FEDEX_GROUND", d0["service_type"])

	notes := List(Path(m, "rate_reply.notifications"))
	require.Len(t, notes, 1)
	assert.Equal(t, "ok", String(m, "rate_reply.notifications.message"))
}

func TestDecode_AttributesAndContent(t *testing.T) {
	m, err := DecodeBytes([]byte(`<Weight units="LB">2.5</Weight>`))
	require.NoError(t, err)
	w, ok := Map(m["weight"])
	require.True(t, ok)
	assert.Equal(t, "LB", w["units"])
	assert.Equal(t, "2.5", w[ContentKey])
}

func TestDecode_Errors(t *testing.T) {
	_, err := DecodeBytes([]byte(""))
	assert.Error(t, err)
	_, err = DecodeBytes([]byte("<a><b></a>"))
	assert.Error(t, err)
	_, err = DecodeBytes([]byte("<a><b>"))
	assert.Error(t, err)
}

func TestList(t *testing.T) {
	assert.Empty(t, List(nil))
	assert.Equal(t, []any{"x"}, List("x"))
	one := map[string]any{"k": "v"}
	assert.Equal(t, []any{one}, List(one))
	both := []any{"a", "b"}
	assert.Equal(t, both, List(both))
	assert.Nil(t, First(nil))
	assert.Equal(t, "a", First(both))
}

func TestPathHelpers(t *testing.T) {
	m := map[string]any{
		"event": map[string]any{"status": "  ", "message": "hi"},
		"code":  "X1",
	}
	assert.Nil(t, Path(m, "event.missing"))
	assert.Nil(t, Path(m, "code.deeper"))
	assert.Equal(t, "hi", String(m, "event.status", "event.message"))
	assert.Equal(t, "", String(m, "nope"))
	assert.Equal(t, "X1", Any(m, "nope", "code"))
	assert.Nil(t, Any(m, "nope"))
}
