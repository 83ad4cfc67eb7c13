package http11

import (
	"github.com/valyala/fasthttp"
)

// ParseForm decodes an application/x-www-form-urlencoded payload into
// parameters grouped by exact name. Groups keep the order in which each name
// first appeared and values keep wire order. '+' decodes to a space and %XX
// escapes to their byte; malformed escapes are kept literally.
func ParseForm(data []byte) []Param {
	if len(data) == 0 {
		return []Param{}
	}

	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseArgs(args)
	args.ParseBytes(data)

	params := make([]Param, 0, args.Len())
	index := make(map[string]int, args.Len())
	args.VisitAll(func(key, value []byte) {
		name := string(key)
		if i, ok := index[name]; ok {
			params[i].Values = append(params[i].Values, string(value))
			return
		}
		index[name] = len(params)
		params = append(params, Param{Name: name, Values: []string{string(value)}})
	})
	return params
}
