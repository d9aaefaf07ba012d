/* Copyright 2026 The Bindkit Authors
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 * http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package tools renders ruleset documentation.
package tools

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/bindkit/bindkit/rules"

	md "github.com/russross/blackfriday/v2"
)

// RenderRulesetHTML writes an HTML fragment documenting the ruleset.
//
// Doc strings are treated as Markdown.
func RenderRulesetHTML(rs *rules.Ruleset, out io.Writer) error {
	f := func(format string, args ...interface{}) {
		fmt.Fprintf(out, format+"\n", args...)
	}

	if rs.Doc != "" {
		f(`<div class="rulesetDoc doc">%s</div>`, md.Run([]byte(rs.Doc)))
	}

	names := make([]string, 0, len(rs.Rules))
	for name := range rs.Rules {
		names = append(names, name)
	}
	sort.Strings(names)

	f(`<div class="rules"><table>`)
	for _, name := range names {
		r := rs.Rules[name]
		f(`<tr class="rule"><td><span id="%s" class="ruleName">%s</span></td><td>`, name, name)

		if r.Doc != "" {
			f(`<div class="ruleDoc doc">%s</div>`, md.Run([]byte(r.Doc)))
		}

		f(`<div class="cases"><table>`)
		for i, c := range r.Cases {
			f(`<tr><td><div class="caseNum">%d</div></td><td>`, i)
			f(`<table>`)
			if c.Doc != "" {
				f(`<tr><td>doc</td><td><div class="caseDoc doc">%s</div></td></tr>`,
					md.Run([]byte(c.Doc)))
			}
			if c.Pattern != nil {
				f(`<tr><td>pattern</td><td><code>%s</code></td></tr>`, js(c.Pattern))
			}
			if c.Import != nil {
				f(`<tr><td>import</td><td><code>%s</code></td></tr>`, js(c.Import))
			}
			if c.Guard != nil {
				f(`<tr><td>guard</td><td><div class="code"><pre>%s</pre></div></td></tr>`,
					c.Guard.Source)
			}
			if c.Emit != nil {
				f(`<tr><td>emit</td><td><code>%s</code></td></tr>`, js(c.Emit))
			}
			f(`</table>`)
			f(`</td></tr>`)
		}
		f(`</table></div>`)

		f(`</td></tr>`)
	}
	f(`</table></div>`)

	return nil
}

// RenderRulesetPage writes a complete HTML page documenting the
// ruleset.
func RenderRulesetPage(rs *rules.Ruleset, out io.Writer, cssFiles []string) error {
	if cssFiles == nil {
		cssFiles = []string{"/static/rules-html.css"}
	}

	fmt.Fprintf(out, `<!DOCTYPE html>
<meta charset="utf-8">
<html>
  <head>
  <title>%s</title>
`, rs.Name)

	for _, cssFile := range cssFiles {
		fmt.Fprintf(out, "  <link href=\"%s\" rel=\"stylesheet\">\n", cssFile)
	}

	fmt.Fprintf(out, `
  </head>
  <body>
    <h1>%s</h1>
`, rs.Name)

	if err := RenderRulesetHTML(rs, out); err != nil {
		return err
	}

	fmt.Fprintf(out, `
  </body>
</html>
`)

	return nil
}

// ReadAndRenderRulesetPage reads a ruleset file and renders its
// documentation page.
func ReadAndRenderRulesetPage(filename string, cssFiles []string, out io.Writer) error {
	rs, err := rules.ReadRuleset(filename)
	if err != nil {
		return err
	}
	return RenderRulesetPage(rs, out, cssFiles)
}

func js(x interface{}) string {
	bs, err := json.Marshal(&x)
	if err != nil {
		return fmt.Sprintf("%#v", x)
	}
	return string(bs)
}
