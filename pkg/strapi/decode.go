package strapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type decodeOptions struct {
	normalize bool
	single    bool
	content   bool
}

// decodeResponse turns a response body into an envelope.
//
// Content collections answer with {data, meta}; data is normalized when
// enabled and, for single-mode reads, a list is reduced to its first element
// while meta is kept. Other endpoints (users, auth) answer with the bare entity,
// which becomes Data as is.
func decodeResponse[T any](body []byte, opts decodeOptions) *APIResponse[T] {
	payload, err := decodeJSON(body)
	if err != nil {
		return errorResponse[T](decodeError(err))
	}

	if !opts.content {
		return fromPayload[T](payload, nil)
	}

	data := payload

	var meta *Meta

	envelope, isObject := payload.(map[string]any)
	if isObject {
		if inner, ok := envelope["data"]; ok {
			data = inner

			meta, err = decodeMeta(envelope["meta"])
			if err != nil {
				return errorResponse[T](decodeError(err))
			}
		}
	}

	if opts.normalize {
		data = Normalize(data)
	}

	if opts.single {
		list, isList := data.([]any)
		if isList {
			data = nil
			if len(list) > 0 {
				data = list[0]
			}
		}
	}

	resp := fromPayload[T](data, meta)

	if isObject && resp.Error == nil {
		backend, ok := envelope["error"]
		if ok && backend != nil {
			resp.Error = &APIError{}

			err = remarshal(backend, resp.Error)
			if err != nil {
				resp.Error = decodeError(err)
			}
		}
	}

	return resp
}

func fromPayload[T any](data any, meta *Meta) *APIResponse[T] {
	resp := &APIResponse[T]{Meta: meta}
	if data == nil {
		return resp
	}

	err := remarshal(data, &resp.Data)
	if err != nil {
		return errorResponse[T](decodeError(err))
	}

	return resp
}

func decodeJSON(body []byte) (any, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var payload any

	err := decoder.Decode(&payload)
	if err != nil {
		return nil, fmt.Errorf("decoding response body: %w", err)
	}

	return payload, nil
}

func decodeMeta(raw any) (*Meta, error) {
	object, ok := raw.(map[string]any)
	if !ok || len(object) == 0 {
		return nil, nil
	}

	meta := &Meta{}

	err := remarshal(object, meta)
	if err != nil {
		return nil, err
	}

	return meta, nil
}

// remarshal converts a decoded JSON tree into target.
func remarshal(value any, target any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encoding payload: %w", err)
	}

	decoder := json.NewDecoder(bytes.NewReader(data))
	decoder.UseNumber()

	err = decoder.Decode(target)
	if err != nil {
		return fmt.Errorf("decoding payload into %T: %w", target, err)
	}

	return nil
}

func decodeError(err error) *APIError {
	return &APIError{Name: "DecodeError", Message: err.Error()}
}
