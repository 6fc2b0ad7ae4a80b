package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestLoad_CatalogsHaveSameKeys(t *testing.T) {
	b, err := Load(nil)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	en, ru := b.catalogs["en"], b.catalogs["ru"]
	if len(en) == 0 {
		t.Fatal("каталог en пуст")
	}
	for key := range en {
		if _, ok := ru[key]; !ok {
			t.Errorf("ключ %q отсутствует в каталоге ru", key)
		}
	}
	for key := range ru {
		if _, ok := en[key]; !ok {
			t.Errorf("ключ %q отсутствует в каталоге en", key)
		}
	}
}

func TestBundle_TranslateFallback(t *testing.T) {
	b := NewBundle(nil)
	if err := b.LoadMessages("en", []byte(`{"a":"A","b":"B"}`)); err != nil {
		t.Fatal(err)
	}
	if err := b.LoadMessages("ru", []byte(`{"a":"А"}`)); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		lang, key, want string
	}{
		{"ru", "a", "А"},
		{"ru", "b", "B"},
		{"en", "a", "A"},
		{"ru", "missing", "missing"},
	}
	for _, tt := range tests {
		if got := b.Translate(tt.lang, tt.key); got != tt.want {
			t.Errorf("Translate(%q, %q) = %q, ожидается %q", tt.lang, tt.key, got, tt.want)
		}
	}
}

func TestBundle_LoadMessagesInvalid(t *testing.T) {
	if err := NewBundle(nil).LoadMessages("en", []byte(`[`)); err == nil {
		t.Error("ожидается ошибка для некорректного JSON")
	}
}

func TestTranslator_Tf(t *testing.T) {
	b := NewBundle(nil)
	if err := b.LoadMessages("en", []byte(`{"hello":"Hello, %s"}`)); err != nil {
		t.Fatal(err)
	}

	if got := b.For("en").Tf("hello", "alice"); got != "Hello, alice" {
		t.Errorf("Tf = %q, ожидается Hello, alice", got)
	}

	var zero Translator
	if got := zero.T("hello"); got != "hello" {
		t.Errorf("нулевой Translator: T = %q, ожидается ключ", got)
	}
}

func TestMatchLanguage(t *testing.T) {
	tests := map[string]string{
		"ru-RU,ru;q=0.9,en;q=0.8": "ru",
		"en-US,en;q=0.9":          "en",
		"de-DE":                   "en",
	}
	for accept, want := range tests {
		if got := MatchLanguage(accept); got != want {
			t.Errorf("MatchLanguage(%q) = %q, ожидается %q", accept, got, want)
		}
	}
}

func TestMiddleware_Priority(t *testing.T) {
	tests := []struct {
		name   string
		cookie string
		accept string
		want   string
	}{
		{"cookie побеждает", "ru", "en-US", "ru"},
		{"неизвестный cookie", "fr", "ru-RU", "ru"},
		{"Accept-Language", "", "ru", "ru"},
		{"по умолчанию", "", "", "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			handler := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = LangFromContext(r.Context())
			}))

			req := httptest.NewRequest(http.MethodGet, "/admin/", nil)
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: LangCookieName, Value: tt.cookie})
			}
			if tt.accept != "" {
				req.Header.Set("Accept-Language", tt.accept)
			}
			handler.ServeHTTP(httptest.NewRecorder(), req)

			if got != tt.want {
				t.Errorf("язык = %q, ожидается %q", got, tt.want)
			}
		})
	}
}
