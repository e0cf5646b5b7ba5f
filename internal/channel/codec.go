package channel

import (
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Name is the method channel both host platforms register.
const Name = "com.example.flutterCustomPhotoManager/photoManager"

type MethodCall struct {
	Method    string
	Arguments json.RawMessage
}

type ReplyKind int

const (
	ReplySuccess ReplyKind = iota
	ReplyError
	ReplyNotImplemented
)

type Reply struct {
	Kind    ReplyKind
	Result  any
	Code    string
	Message string
	Details any
}

func Success(result any) Reply {
	return Reply{Kind: ReplySuccess, Result: result}
}

func Error(code, message string, details any) Reply {
	return Reply{Kind: ReplyError, Code: code, Message: message, Details: details}
}

func NotImplemented() Reply {
	return Reply{Kind: ReplyNotImplemented}
}

// The envelope follows the JSON method codec:
//
//	call:    {"method": "getImagePaths", "args": null}
//	success: [result]
//	error:   [code, message, details]
//	not implemented: empty payload

func EncodeMethodCall(call MethodCall) ([]byte, error) {
	args := call.Arguments
	if len(args) == 0 {
		args = json.RawMessage("null")
	}
	return json.Marshal(struct {
		Method string          `json:"method"`
		Args   json.RawMessage `json:"args"`
	}{call.Method, args})
}

func DecodeMethodCall(data []byte) (MethodCall, error) {
	if !gjson.ValidBytes(data) {
		return MethodCall{}, fmt.Errorf("method call is not valid json")
	}

	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return MethodCall{}, fmt.Errorf("method call must be a json object")
	}

	method := root.Get("method")
	if method.Type != gjson.String || method.Str == "" {
		return MethodCall{}, fmt.Errorf("method call without method name")
	}

	call := MethodCall{Method: method.Str}
	if args := root.Get("args"); args.Exists() && args.Type != gjson.Null {
		call.Arguments = json.RawMessage(args.Raw)
	}
	return call, nil
}

func EncodeReply(r Reply) ([]byte, error) {
	switch r.Kind {
	case ReplySuccess:
		return json.Marshal([]any{r.Result})
	case ReplyError:
		return json.Marshal([]any{r.Code, r.Message, r.Details})
	case ReplyNotImplemented:
		return nil, nil
	}
	return nil, fmt.Errorf("unknown reply kind %d", r.Kind)
}

// DecodeReply parses an envelope. Results come back as json.RawMessage.
func DecodeReply(data []byte) (Reply, error) {
	if len(data) == 0 {
		return NotImplemented(), nil
	}
	if !gjson.ValidBytes(data) {
		return Reply{}, fmt.Errorf("reply is not valid json")
	}

	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return Reply{}, fmt.Errorf("reply must be a json array")
	}

	items := root.Array()
	switch len(items) {
	case 1:
		return Success(json.RawMessage(items[0].Raw)), nil
	case 3:
		var details any
		if items[2].Type != gjson.Null {
			details = json.RawMessage(items[2].Raw)
		}
		return Error(items[0].String(), items[1].String(), details), nil
	}
	return Reply{}, fmt.Errorf("reply envelope has %d items", len(items))
}
