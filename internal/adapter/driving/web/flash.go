package web

import (
	"net/http"
	"net/url"
	"strings"

	vm "github.com/ericfisherdev/colorbook/internal/adapter/driving/web/viewmodel"
)

const flashCookieName = "flash"

// setFlash stores a one-shot notice for the page shown after the redirect.
func setFlash(w http.ResponseWriter, f vm.Flash) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(string(f.Kind) + ":" + f.Message),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})
}

// popFlash returns the pending notice, if any, and clears it.
func popFlash(w http.ResponseWriter, r *http.Request) vm.Flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return vm.Flash{}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteStrictMode,
	})

	raw, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return vm.Flash{}
	}
	kind, msg, ok := strings.Cut(raw, ":")
	if !ok {
		return vm.Flash{}
	}

	switch k := vm.FlashKind(kind); k {
	case vm.FlashSuccess, vm.FlashError, vm.FlashInfo:
		return vm.Flash{Kind: k, Message: msg}
	default:
		return vm.Flash{}
	}
}
