// Package locale renders user-facing messages from embedded YAML catalogs.
//
// Catalogs live in locales/<name>.yml as nested maps; lookups use dotted
// keys such as "apps.messages.not_found_app". Values may contain %{name}
// placeholders filled from Args:
//
//	tr, _ := locale.New(func() string { return config.Get().DefaultLocale })
//	loc := tr.Match(r.Header.Get("Accept-Language"))
//	notice := tr.T(loc, "apps.messages.not_found_app", locale.Args{"id": id})
package locale
