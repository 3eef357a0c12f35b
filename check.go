package reststeps

import (
	"reflect"
	"slices"
)

// MissingRules returns the JSON keys of shape members that no rule covers.
// Service tests use it so a field added to a response shape is not silently
// left unchecked. Members tagged json:"-", docs:"skip" or validate:"-" are
// never reported; exclude takes further JSON keys or Go field names.
//
//	assert.Empty(t, reststeps.MissingRules(&services.ConsentSuccessResponse{}))
//	assert.Empty(t, reststeps.MissingRules(&services.TopupRequest{}, "comments"))
//
// shape must be a pointer to a Ruler; anything else returns nil.
func MissingRules(shape any, exclude ...string) []string {
	r, ok := shape.(Ruler)
	if !ok {
		return nil
	}
	sv := reflect.Indirect(reflect.ValueOf(shape))

	covered := map[string]bool{}
	for _, fr := range expandFields(shape, r.Rules()) {
		if key, ok := ruleKey(sv, fr.fieldPtr); ok {
			covered[key] = true
		}
	}

	var missing []string
	for _, f := range shapeFields(sv) {
		switch {
		case f.hidden, f.unchecked, covered[f.key]:
		case slices.Contains(exclude, f.key), slices.Contains(exclude, f.goName):
		default:
			missing = append(missing, f.key)
		}
	}
	return missing
}
