// Package license resolves an SPDX identifier to license file content.
package license

import (
	"fmt"
	"strings"

	"github.com/vk/projgen/internal/projerr"
)

// Options parameterize the rendered license text.
type Options struct {
	// SPDX is the license identifier, e.g. "Apache-2.0".
	SPDX string
	// CopyrightOwner lands in the copyright line where the text has one.
	CopyrightOwner string
	// CopyrightPeriod is the year or year range, e.g. "2026".
	CopyrightPeriod string
}

// Render returns the LICENSE artifact content for the given options. An
// SPDX id without a bundled text is a configuration error.
func Render(opts Options) ([]byte, error) {
	text, ok := texts[opts.SPDX]
	if !ok {
		return nil, projerr.Config("license", "no bundled text for SPDX id %q", opts.SPDX)
	}
	owner := opts.CopyrightOwner
	if owner == "" {
		owner = "the project authors"
	}
	period := opts.CopyrightPeriod
	if period == "" {
		period = "2026"
	}
	text = strings.ReplaceAll(text, "{{owner}}", owner)
	text = strings.ReplaceAll(text, "{{period}}", period)
	return []byte(text), nil
}

// Supported returns whether an SPDX id has a bundled text.
func Supported(spdx string) bool {
	_, ok := texts[spdx]
	return ok
}

// SupportedIDs lists the bundled SPDX ids for error messages.
func SupportedIDs() string {
	ids := make([]string, 0, len(texts))
	for id := range texts {
		ids = append(ids, id)
	}
	return fmt.Sprintf("%v", ids)
}

var texts = map[string]string{
	"MIT": `MIT License

Copyright (c) {{period}} {{owner}}

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in all
copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
`,
	"Apache-2.0": `                                 Apache License
                           Version 2.0, January 2004
                        http://www.apache.org/licenses/

   TERMS AND CONDITIONS FOR USE, REPRODUCTION, AND DISTRIBUTION

   1. Definitions.

      "License" shall mean the terms and conditions for use, reproduction,
      and distribution as defined by Sections 1 through 9 of this document.

      "Licensor" shall mean the copyright owner or entity authorized by
      the copyright owner that is granting the License.

      "Legal Entity" shall mean the union of the acting entity and all
      other entities that control, are controlled by, or are under common
      control with that entity.

      "You" (or "Your") shall mean an individual or Legal Entity
      exercising permissions granted by this License.

      "Source" form shall mean the preferred form for making modifications,
      including but not limited to software source code, documentation
      source, and configuration files.

      "Object" form shall mean any form resulting from mechanical
      transformation or translation of a Source form.

      "Work" shall mean the work of authorship, whether in Source or
      Object form, made available under the License.

      "Derivative Works" shall mean any work, whether in Source or Object
      form, that is based on (or derived from) the Work.

      "Contribution" shall mean any work of authorship that is
      intentionally submitted to Licensor for inclusion in the Work.

      "Contributor" shall mean Licensor and any individual or Legal Entity
      on behalf of whom a Contribution has been received by Licensor and
      subsequently incorporated within the Work.

   2. Grant of Copyright License. Subject to the terms and conditions of
      this License, each Contributor hereby grants to You a perpetual,
      worldwide, non-exclusive, no-charge, royalty-free, irrevocable
      copyright license to reproduce, prepare Derivative Works of,
      publicly display, publicly perform, sublicense, and distribute the
      Work and such Derivative Works in Source or Object form.

   3. Grant of Patent License. Subject to the terms and conditions of
      this License, each Contributor hereby grants to You a perpetual,
      worldwide, non-exclusive, no-charge, royalty-free, irrevocable
      (except as stated in this section) patent license to make, have
      made, use, offer to sell, sell, import, and otherwise transfer the
      Work.

   4. Redistribution. You may reproduce and distribute copies of the
      Work or Derivative Works thereof in any medium, with or without
      modifications, and in Source or Object form, provided that You
      meet the conditions enumerated in the License.

   5. Submission of Contributions. Unless You explicitly state otherwise,
      any Contribution intentionally submitted for inclusion in the Work
      by You to the Licensor shall be under the terms and conditions of
      this License, without any additional terms or conditions.

   6. Trademarks. This License does not grant permission to use the trade
      names, trademarks, service marks, or product names of the Licensor.

   7. Disclaimer of Warranty. Unless required by applicable law or
      agreed to in writing, Licensor provides the Work on an "AS IS"
      BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND.

   8. Limitation of Liability. In no event and under no legal theory
      shall any Contributor be liable to You for damages arising as a
      result of this License or out of the use or inability to use the
      Work.

   9. Accepting Warranty or Additional Liability. You may choose to
      offer, and charge a fee for, acceptance of support, warranty,
      indemnity, or other liability obligations consistent with this
      License.

   END OF TERMS AND CONDITIONS

   Copyright {{period}} {{owner}}

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
   implied. See the License for the specific language governing
   permissions and limitations under the License.
`,
}
