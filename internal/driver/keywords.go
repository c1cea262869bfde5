// Copyright 2025 EngFlow Inc. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package driver

import "github.com/branchcc/branchcc/internal/scope"

var storageClassKeywords = map[string]scope.StorageClass{
	"static":   scope.StorageClassStatic,
	"extern":   scope.StorageClassExtern,
	"typedef":  scope.StorageClassTypedef,
	"register": scope.StorageClassRegister,
}

var typeSpecifierKeywords = map[string]bool{
	"void": true, "char": true, "short": true, "int": true, "long": true,
	"float": true, "double": true, "signed": true, "unsigned": true,
	"_Bool": true, "_Complex": true,
}

var qualifierKeywords = map[string]bool{
	"const": true, "volatile": true, "restrict": true, "_Atomic": true,
	"inline": true, "_Noreturn": true,
}

var tagKeywords = map[string]bool{
	"struct": true, "union": true, "enum": true,
}
