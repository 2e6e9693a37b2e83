package fedex

import (
	"strings"

	"github.com/pkg/errors"

	"carrierrates/internal/xmlmap"
)

var successSeverities = map[string]struct{}{
	"SUCCESS": {},
	"WARNING": {},
	"NOTE":    {},
}

// Normalize decodes a response payload into a nested map. A SOAP envelope
// is unwrapped so faults and replies both sit at the top level.
func Normalize(body []byte) (map[string]any, error) {
	m, err := xmlmap.DecodeBytes(body)
	if err != nil {
		return nil, errors.Wrapf(ErrMalformedRateReply, "%v", err)
	}
	if inner, ok := xmlmap.Map(xmlmap.Path(m, "envelope.body")); ok {
		return inner, nil
	}
	return m, nil
}

// Success reports whether resp is a rate reply with a non-failing severity.
func Success(resp map[string]any) bool {
	reply, ok := xmlmap.Map(resp["rate_reply"])
	if !ok {
		return false
	}
	s, _ := reply["highest_severity"].(string)
	_, ok = successSeverities[s]
	return ok
}

// ErrorMessage extracts a display message from a failed response: the first
// notification of a rate reply, or a SOAP fault's reason followed by each
// validation failure on its own "--" line.
func ErrorMessage(resp map[string]any) (string, error) {
	if reply, ok := resp["rate_reply"]; ok {
		return notificationMessage(reply)
	}
	return faultMessage(resp)
}

func notificationMessage(reply any) (string, error) {
	r, ok := xmlmap.Map(reply)
	if !ok {
		return "", errors.Wrap(ErrUnknownFaultFormat, "rate_reply is not an element")
	}
	n, ok := xmlmap.Map(xmlmap.First(r["notifications"]))
	if !ok {
		return "", errors.Wrap(ErrUnknownFaultFormat, "rate_reply has no notifications")
	}
	msg, ok := n["message"].(string)
	if !ok {
		return "", errors.Wrap(ErrUnknownFaultFormat, "notification has no message")
	}
	return msg, nil
}

func faultMessage(resp map[string]any) (string, error) {
	fault, ok := xmlmap.Map(xmlmap.Path(resp, "fault.detail.fault"))
	if !ok {
		return "", errors.Wrap(ErrUnknownFaultFormat, "no fault detail")
	}
	reason, ok := fault["reason"].(string)
	if !ok {
		return "", errors.Wrap(ErrUnknownFaultFormat, "fault has no reason")
	}
	var msgs []string
	for _, v := range xmlmap.List(xmlmap.Path(fault, "details.validation_failure_detail.message")) {
		s, ok := v.(string)
		if !ok {
			return "", errors.Wrap(ErrUnknownFaultFormat, "validation failure message is not text")
		}
		msgs = append(msgs, s)
	}
	return reason + "\n--" + strings.Join(msgs, "\n--"), nil
}
