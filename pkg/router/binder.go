package router

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
)

// bindRequest fills the request struct from the query string for GET
// requests and from the JSON body for POST ones. Multipart bodies are left
// untouched so upload endpoints can read the form themselves.
func bindRequest(r *http.Request, method string, req any) error {
	switch method {
	case http.MethodGet:
		return bindQuery(r, req)
	case http.MethodPost:
		contentType := r.Header.Get("Content-Type")
		if strings.HasPrefix(contentType, "multipart/form-data") {
			return nil
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			return err
		}

		if len(body) == 0 {
			return nil
		}

		return json.Unmarshal(body, req)
	}

	return fmt.Errorf("not supported method %s", method)
}

func bindQuery(r *http.Request, req any) error {
	v := reflect.ValueOf(req).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name == "" || name == "-" {
			continue
		}

		queryVal := r.URL.Query().Get(name)
		if queryVal == "" {
			continue
		}

		field := v.Field(i)
		switch field.Kind() {
		case reflect.String:
			field.SetString(queryVal)

		case reflect.Int, reflect.Int64:
			val, err := strconv.ParseInt(queryVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value of %s: %w", name, err)
			}
			field.SetInt(val)

		case reflect.Uint, reflect.Uint64:
			val, err := strconv.ParseUint(queryVal, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid value of %s: %w", name, err)
			}
			field.SetUint(val)

		case reflect.Bool:
			val, err := strconv.ParseBool(queryVal)
			if err != nil {
				return fmt.Errorf("invalid value of %s: %w", name, err)
			}
			field.SetBool(val)

		case reflect.Slice:
			if field.Type().Elem().Kind() != reflect.String {
				return fmt.Errorf("not supported slice type of %s", name)
			}
			field.Set(reflect.ValueOf(strings.Split(queryVal, ",")))

		default:
			return fmt.Errorf("not supported type of %s", name)
		}
	}

	return nil
}
