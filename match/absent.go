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

package match

// AbsentType is the type of the Absent sentinel.
//
// Absent intentionally is not nil: a JSON null is a real (present)
// value, and the matcher must be able to tell the two apart.
type AbsentType struct{}

// Absent marks a name that has no value bound to it.
//
// As a pattern, Absent matches only Absent.  A variable will happily
// bind Absent, so combinators that care (Default, Import) check for it
// explicitly.
var Absent = AbsentType{}

func (AbsentType) String() string {
	return "<absent>"
}

// MarshalJSON renders Absent as null, which is the closest JSON gets.
func (AbsentType) MarshalJSON() ([]byte, error) {
	return []byte("null"), nil
}

// IsAbsent reports whether x is the Absent sentinel.
func IsAbsent(x interface{}) bool {
	_, is := x.(AbsentType)
	return is
}
