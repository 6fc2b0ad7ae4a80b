// entity.go — запрос POST /api/entity/instance и разбор ответа.
// Backend может вернуть объект или массив объектов (берётся первый элемент).
package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
)

var errInvalidEntityJSON = errors.New("ответ /api/entity/instance не является корректным JSON")

// appIDQuery — запрос приложения по APP_ID. Ключ передаётся всегда,
// в том числе пустой.
type appIDQuery struct {
	RelationID string `json:"RELATION_ID"`
	AppID      string `json:"APP_ID"`
}

// routeLinkQuery — запрос приложения по ROUTE_LINK.
type routeLinkQuery struct {
	RelationID string `json:"RELATION_ID"`
	RouteLink  string `json:"ROUTE_LINK"`
}

// appRow — строка связи app в экземпляре сущности.
type appRow struct {
	Name      string `json:"NAME"`
	RouteLink string `json:"ROUTE_LINK"`
}

// appEntity — экземпляр сущности приложения. nil — сущность не найдена.
type appEntity struct {
	apps []appRow
}

// fetchEntity выполняет запрос и возвращает найденную сущность.
// Отсутствующая или неполная сущность — (nil, nil).
// query — appIDQuery или routeLinkQuery.
func (c *Client) fetchEntity(ctx context.Context, query any) (*appEntity, error) {
	body, err := c.do(ctx, http.MethodPost, "/api/entity/instance", query)
	if err != nil {
		return nil, err
	}
	return parseEntity(body)
}

// parseEntity разбирает тело ответа. Ошибкой считается только
// некорректный JSON; прочие формы ответа означают «не найдено».
func parseEntity(body []byte) (*appEntity, error) {
	body = bytes.TrimSpace(body)
	if !json.Valid(body) {
		return nil, errInvalidEntityJSON
	}

	if len(body) > 0 && body[0] == '[' {
		var list []json.RawMessage
		if err := json.Unmarshal(body, &list); err != nil || len(list) == 0 {
			return nil, nil
		}
		body = list[0]
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, nil
	}

	if !truthy(fields["ENTITY_ID"]) {
		return nil, nil
	}

	var apps []appRow
	if err := json.Unmarshal(fields["app"], &apps); err != nil || len(apps) == 0 {
		return nil, nil
	}

	return &appEntity{apps: apps}, nil
}

// firstApp возвращает первую строку связи app.
func (e *appEntity) firstApp() (appRow, bool) {
	if e == nil || len(e.apps) == 0 {
		return appRow{}, false
	}
	return e.apps[0], true
}

// truthy — истинность JSON-значения ENTITY_ID: отсутствие, null, false,
// пустая строка и числовой ноль ложны, остальное истинно.
func truthy(raw json.RawMessage) bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return false
	}

	switch raw[0] {
	case 'n', 'f':
		return false
	case 't', '{', '[':
		return true
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return false
		}
		return s != ""
	default:
		f, err := strconv.ParseFloat(string(raw), 64)
		if err != nil {
			return false
		}
		return f != 0
	}
}
