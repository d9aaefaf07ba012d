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

// Package rules wraps the bind combinators in declarative,
// serializable rules.
//
// A Rule is an ordered list of Cases.  A Case can have a structural
// pattern, a recursive import descriptor, a guard (interpreted code
// that can veto or revise bindings), and an emit template.  Applying
// a Rule to a message dispatches over its Cases with
// first-match-wins semantics via bind.Matches.
package rules

import (
	"context"

	"github.com/bindkit/bindkit/bind"
	"github.com/bindkit/bindkit/match"
)

// GuardSource is interpretable code plus the name of the interpreter
// that understands it.
type GuardSource struct {
	// Interpreter names the interpreter for this guard.  If
	// empty, DefaultInterpreterName is used.
	Interpreter string `json:"interpreter,omitempty" yaml:",omitempty"`

	// Source is the guard code.  What it looks like is between
	// the author and the interpreter.
	Source interface{} `json:"source,omitempty" yaml:",omitempty"`
}

// Case is one alternative in a Rule.
//
// A message is tried against the Pattern (if any), then destructured
// by the Import descriptor (if any), and the accumulated bindings are
// finally offered to the Guard (if any), which can veto the case or
// revise the bindings.  Only a case that clears all three commits.
type Case struct {
	// Doc describes this case in English and Markdown.
	Doc string `json:"doc,omitempty" yaml:",omitempty"`

	// Pattern is a structural pattern (see the match package)
	// matched against the whole message.
	Pattern interface{} `json:"pattern,omitempty" yaml:",omitempty"`

	// Import is a nested descriptor destructuring the message.
	// Non-map leaves are treated as structural patterns bound
	// against the corresponding entry, which must be present.
	Import map[string]interface{} `json:"import,omitempty" yaml:",omitempty"`

	// Guard optionally filters or revises the case's bindings.
	Guard *GuardSource `json:"guard,omitempty" yaml:",omitempty"`

	// Emit is a template instantiated against the winning
	// bindings; the result is this case's outbound message.
	Emit interface{} `json:"emit,omitempty" yaml:",omitempty"`

	guard compiledGuard
}

// Rule is a named, ordered list of Cases.
type Rule struct {
	// Name is the generic name for this rule.  Something like
	// "device-status-normalizer".
	Name string `json:"name,omitempty" yaml:",omitempty"`

	// Doc is general documentation about how this rule works.
	Doc string `json:"doc,omitempty" yaml:",omitempty"`

	// Cases are tried in order; the first one that commits wins.
	Cases []*Case `json:"cases"`

	compiled bool
}

// Ruleset is a named collection of Rules.
//
// Rules in a set are independent: applying a Ruleset applies every
// rule to the message.
type Ruleset struct {
	Name string `json:"name,omitempty" yaml:",omitempty"`

	Doc string `json:"doc,omitempty" yaml:",omitempty"`

	Rules map[string]*Rule `json:"rules"`
}

// Outcome reports what applying a Rule did.
type Outcome struct {
	// Rule is the name of the rule that was applied.
	Rule string `json:"rule,omitempty"`

	// Bs are the winning case's bindings.
	Bs match.Bindings `json:"bs"`

	// Emitted holds the instantiated emit template (if any)
	// followed by whatever the guard emitted.
	Emitted []interface{} `json:"emitted,omitempty"`
}

// Apply dispatches msg over the rule's cases.
//
// The first case whose pattern, import, and guard all accept wins; its
// bindings (and emissions) form the Outcome.  If no case accepts, the
// error is a bind.NoMatch.  Guard evaluation errors and required-field
// errors propagate as they are; they do not cause fallthrough.
func (r *Rule) Apply(ctx context.Context, msg interface{}, bs match.Bindings, props Props) (*Outcome, error) {
	if !r.compiled {
		return nil, &RuleNotCompiled{r}
	}
	if bs == nil {
		bs = match.NewBindings()
	}

	outcome := &Outcome{Rule: r.Name}

	cases := make([]bind.Pattern, len(r.Cases))
	for i, c := range r.Cases {
		cases[i] = c.pattern(r, outcome, props)
	}

	got, err := bind.Matches(cases...).Bind(ctx, msg, bs)
	if err != nil {
		return nil, err
	}
	outcome.Bs = got
	return outcome, nil
}

// pattern turns a Case into a bind.Pattern for one Apply call.
//
// The returned pattern writes the case's emissions into the given
// Outcome when (and only when) the case commits.
func (c *Case) pattern(r *Rule, outcome *Outcome, props Props) bind.Pattern {
	return bind.PatternFunc(func(ctx context.Context, v interface{}, bs match.Bindings) (match.Bindings, error) {
		if c.Pattern != nil {
			var err error
			if bs, err = bind.Literal(c.Pattern).Bind(ctx, v, bs); err != nil {
				return nil, err
			}
		}

		if c.Import != nil {
			var err error
			if bs, err = bind.Import(descriptor(c.Import)).Bind(ctx, v, bs); err != nil {
				return nil, err
			}
		}

		var emitted []interface{}
		if c.Guard != nil {
			if c.guard == nil {
				return nil, &UncompiledGuard{Rule: r}
			}
			exe, err := c.guard(ctx, bs, props)
			if err != nil {
				return nil, err
			}
			if exe.Bs == nil {
				// The guard vetoed this case.
				return nil, &bind.NoMatch{Value: v, Reason: "guard vetoed"}
			}
			bs = exe.Bs
			emitted = exe.Emitted
		}

		if c.Emit != nil {
			outcome.Emitted = append(outcome.Emitted, Subst(c.Emit, bs))
		}
		outcome.Emitted = append(outcome.Emitted, emitted...)

		return bs, nil
	})
}

// descriptor converts a serialized import descriptor into the shape
// bind.Import wants: nested maps stay maps, and every non-map leaf
// becomes a Literal pattern.
func descriptor(m map[string]interface{}) map[string]interface{} {
	acc := make(map[string]interface{}, len(m))
	for k, v := range m {
		if sub, is := v.(map[string]interface{}); is {
			acc[k] = descriptor(sub)
		} else {
			acc[k] = bind.Literal(v)
		}
	}
	return acc
}

// Apply applies every rule in the set to the message.
//
// Rules that don't match are skipped; every other error aborts.  The
// returned outcomes are those of the rules that matched.
func (rs *Ruleset) Apply(ctx context.Context, msg interface{}, props Props) ([]*Outcome, error) {
	acc := make([]*Outcome, 0, len(rs.Rules))
	for _, r := range rs.Rules {
		outcome, err := r.Apply(ctx, msg, nil, props)
		if err != nil {
			if bind.IsNoMatch(err) {
				continue
			}
			return nil, err
		}
		acc = append(acc, outcome)
	}
	return acc, nil
}
