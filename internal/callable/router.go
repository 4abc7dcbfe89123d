package callable

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"path"
	"strings"

	"buitube/internal/logging"

	"github.com/aws/aws-lambda-go/events"
	"github.com/sirupsen/logrus"
)

// Auth is the verified identity of the caller, taken from the JWT authorizer.
type Auth struct {
	UID    string
	Email  string
	Claims map[string]string
}

// Request is one callable invocation. Auth is nil for anonymous callers.
type Request struct {
	Auth *Auth
	Data json.RawMessage
}

type HandlerFunc func(ctx context.Context, req Request) (any, error)

// Router dispatches callable invocations by function name. The route table is
// fixed at construction.
type Router struct {
	routes map[string]HandlerFunc
	log    logrus.FieldLogger
}

func NewRouter(routes map[string]HandlerFunc, log logrus.FieldLogger) *Router {
	table := make(map[string]HandlerFunc, len(routes))
	for name, h := range routes {
		table[name] = h
	}
	return &Router{routes: table, log: log}
}

// Handle is the API Gateway (HTTP API, payload v2) entrypoint.
func (r *Router) Handle(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	log := logging.FromContext(ctx, r.log)

	name := functionName(req.RawPath)
	h, ok := r.routes[name]
	if !ok {
		return errorResp(NewError(CodeNotFound, "function not found: "+name))
	}
	entry := log.WithField("callable", name)

	if m := req.RequestContext.HTTP.Method; m != "" && m != http.MethodPost {
		return jsonResp(http.StatusMethodNotAllowed, map[string]any{
			"error": errorBody{Status: CodeInvalidArgument.wireStatus(), Message: "method not allowed"},
		})
	}

	data, err := requestData(req)
	if err != nil {
		entry.WithError(err).Warn("bad callable envelope")
		return errorResp(WrapError(CodeInvalidArgument, "malformed request body", err))
	}

	result, err := h(ctx, Request{Auth: callerAuth(req), Data: data})
	if err != nil {
		var cerr *Error
		if errors.As(err, &cerr) && cerr.Code != CodeInternal {
			entry.WithError(err).Info("callable rejected")
			return errorResp(cerr)
		}
		// Downstream details stay in the logs.
		entry.WithError(err).Error("callable failed")
		return errorResp(NewError(CodeInternal, "INTERNAL"))
	}

	resp, err := jsonResp(http.StatusOK, map[string]any{"result": result})
	if err != nil {
		entry.WithError(err).Error("encode callable result")
		return errorResp(NewError(CodeInternal, "INTERNAL"))
	}
	return resp, nil
}

func functionName(rawPath string) string {
	p := strings.Trim(rawPath, "/")
	if p == "" {
		return ""
	}
	return path.Base(p)
}

func requestData(req events.APIGatewayV2HTTPRequest) (json.RawMessage, error) {
	body := req.Body
	if req.IsBase64Encoded {
		raw, err := base64.StdEncoding.DecodeString(body)
		if err != nil {
			return nil, err
		}
		body = string(raw)
	}
	if strings.TrimSpace(body) == "" {
		return nil, nil
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal([]byte(body), &envelope); err != nil {
		return nil, err
	}
	return envelope.Data, nil
}

func callerAuth(req events.APIGatewayV2HTTPRequest) *Auth {
	// For HTTP API JWT authorizer, claims are in:
	// req.RequestContext.Authorizer.JWT.Claims
	az := req.RequestContext.Authorizer
	if az == nil || az.JWT == nil || az.JWT.Claims == nil {
		return nil
	}
	claims := az.JWT.Claims
	sub := strings.TrimSpace(claims["sub"])
	if sub == "" {
		return nil
	}
	return &Auth{
		UID:    sub,
		Email:  strings.TrimSpace(claims["email"]),
		Claims: claims,
	}
}

func jsonResp(status int, v any) (events.APIGatewayV2HTTPResponse, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return events.APIGatewayV2HTTPResponse{}, err
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers: map[string]string{
			"content-type":                "application/json",
			"access-control-allow-origin": "*",
		},
		Body: string(b),
	}, nil
}

func errorResp(e *Error) (events.APIGatewayV2HTTPResponse, error) {
	return jsonResp(e.Code.httpStatus(), map[string]any{
		"error": errorBody{Status: e.Code.wireStatus(), Message: e.Message},
	})
}
