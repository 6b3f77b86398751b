package strapi

// Kind classifies a decoded JSON value for normalization.
type Kind int

// Value kinds.
const (
	KindNull Kind = iota
	KindScalar
	KindList
	KindWrapper
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindScalar:
		return "scalar"
	case KindList:
		return "list"
	case KindWrapper:
		return "wrapper"
	default:
		return "unknown"
	}
}

// Classify reports the kind of a value produced by encoding/json decoding into
// an interface: nil, []any, map[string]any or a scalar.
func Classify(value any) Kind {
	switch value.(type) {
	case nil:
		return KindNull
	case []any:
		return KindList
	case map[string]any:
		return KindWrapper
	default:
		return KindScalar
	}
}

// Normalize flattens data/attributes envelopes recursively.
//
// Lists are normalized element by element. For an object: a list under "data"
// becomes the payload, an object under "data" is flattened, an explicit null
// under "data" yields nil, and any other object is flattened itself. Flattening
// merges "id" with the contents of "attributes"; an object without attributes
// is kept as is. Every field of the result is then normalized in turn.
//
// The input is never modified. Normalize(Normalize(x)) equals Normalize(x)
// unless an entity has an attribute named "data": after the first pass that
// attribute is indistinguishable from an envelope and a second pass unwraps it.
func Normalize(value any) any {
	switch Classify(value) {
	case KindList:
		list, _ := value.([]any)
		out := make([]any, len(list))

		for i, item := range list {
			out[i] = Normalize(item)
		}

		return out
	case KindWrapper:
		object, _ := value.(map[string]any)

		return normalizeObject(object)
	case KindNull, KindScalar:
		return value
	default:
		return value
	}
}

func normalizeObject(object map[string]any) any {
	var payload any

	data, hasData := object["data"]

	switch {
	case !hasData:
		payload = flatten(object)
	case Classify(data) == KindList:
		payload = data
	case Classify(data) == KindWrapper:
		inner, _ := data.(map[string]any)
		payload = flatten(inner)
	case Classify(data) == KindNull:
		return nil
	default:
		payload = flatten(object)
	}

	if Classify(payload) == KindList {
		return Normalize(payload)
	}

	fields, _ := payload.(map[string]any)
	for key, field := range fields {
		fields[key] = Normalize(field)
	}

	return fields
}

// flatten returns a new map holding id and the attributes of object, or a
// shallow copy of object when it has no attributes.
func flatten(object map[string]any) map[string]any {
	attributes, ok := object["attributes"].(map[string]any)
	if !ok {
		out := make(map[string]any, len(object))
		for key, value := range object {
			out[key] = value
		}

		return out
	}

	out := make(map[string]any, len(attributes)+1)
	if id, hasID := object["id"]; hasID {
		out["id"] = id
	}

	for key, value := range attributes {
		out[key] = value
	}

	return out
}
