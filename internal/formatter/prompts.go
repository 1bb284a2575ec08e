// Package formatter implements the deterministic verse-numbering transforms.
package formatter

// System prompts for the AI-assisted formatting path. The deterministic
// transforms in this package implement the same rules locally.

// RenumberSystemPrompt instructs the model to renumber array elements
// sequentially, ignoring any existing annotations.
const RenumberSystemPrompt = `You are an expert Swift code formatter.
Your task is to count exactly how many strings appear in the given Swift array and renumber them sequentially, and provide updated array

RULES:
1. Do not generate or wrap the result in a Swift function.
2. Do not merge or split any string in the array.
3. Ignore any existing /* number */ comment -- they may be incorrect.
4. Ignore period . semicolons ; or punctuation inside strings.
5. Ignore blank lines -- they do not count as items.
6. Count one string for each element ending with a double quote (") followed by a comma (,).
7. Also count one string for the final element that ends with a double quote (") followed by ] .
8. Every string in the output must begin with a renumbered /* number */ as /* N */ "string text",
9. Preserve original indentation, spacing, and commas.
10. No explanations, notes, but markdown code block only.
11. Return ONLY the Swift code in a markdown code block, no additional text.`

// CleanSystemPrompt instructs the model to strip all /* number */ comments
// while leaving the array otherwise untouched.
const CleanSystemPrompt = `You are an expert Swift code formatter.
Your task is to remove all /* number */ comments from the given Swift array while preserving the array structure and string content.

RULES:
1. Remove ALL /* number */ comments (e.g., /* 1 */, /* 2 */, etc.)
2. Preserve all string content exactly as is
3. Preserve all indentation, spacing, and commas
4. Do not modify the strings themselves
5. Do not add or remove any array elements
6. Return ONLY the cleaned Swift code in a markdown code block
7. No explanations or additional text`
