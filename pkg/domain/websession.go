package domain

// WebSession is the transient metadata persisted next to a Session
// (server-assigned session token, locale, user context...).
// Its lifetime is governed by the cache that stores it.
type WebSession map[string]any

// Merge copies every entry of other into w, overwriting existing keys.
// Nested maps and slices are copied, so w never aliases other.
// w must be non-nil.
func (w WebSession) Merge(other WebSession) {
	for k, v := range other {
		w[k] = DeepCopy(v)
	}
}

// Clone returns a deep copy of the nested maps and slices. A nil receiver
// yields an empty, non-nil map.
func (w WebSession) Clone() WebSession {
	out := make(WebSession, len(w))
	out.Merge(w)
	return out
}

// DeepCopy copies maps and slices found in v, at any depth. Other values
// are returned as is.
func DeepCopy(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, e := range t {
			out[k] = DeepCopy(e)
		}
		return out
	case WebSession:
		out := make(WebSession, len(t))
		for k, e := range t {
			out[k] = DeepCopy(e)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = DeepCopy(e)
		}
		return out
	default:
		return v
	}
}

// SessionID returns the externally issued session id, if any.
func (w WebSession) SessionID() string {
	id, _ := w[WebKeySessionID].(string)
	return id
}

// Locale returns the session language, looking at "locale" first and then
// at the "lang" entry of the user context.
func (w WebSession) Locale() string {
	if l, ok := w[WebKeyLocale].(string); ok && l != "" {
		return l
	}
	if ctx, ok := w[WebKeyContext].(map[string]any); ok {
		if l, ok := ctx[WebKeyLang].(string); ok {
			return l
		}
	}
	return ""
}
