// Package input collects the runtime inputs a schema is built against.
//
// Inputs come from YAML or JSON documents and from command-line assignments.
// Later sources replace keys set by earlier ones:
//
//	var v input.Values
//
//	file, err := input.ReadFile(ctx, "inputs.yaml")
//	...
//	v.Merge(file)
//	err = v.Set(ctx, `limit=10 * 2`)         // 20 (int)
//	err = v.Set(ctx, `user=env("USER")`)     // string from the environment
//	err = v.SetString(`query=a=b`)           // "a=b" verbatim
//
// Assignments made with [Values.Set] are expr-lang expressions, so numbers,
// booleans, lists and maps keep their type. Use [Values.SetString] when the
// value is plain text.
package input
