package mcpserver

// PostingFormatContract describes the canonical blog posting format that
// LLM consumers should follow when writing content for the checks.
const PostingFormatContract = `# Blog Posting Format Contract

Every Markdown posting checked by this tool MUST follow this structure.

## Structure

` + "```" + `markdown
---
title: Human-readable title         # frontmatter fields used by Hugo
tags:                               # lowercase, may include ä ö ü ß . - _
  - tag-one
  - tag-two
categories:
  - category-one
thumbnail: images/preview.jpg       # preview image for the posting
description: One-line summary       # preview description
draft: true                         # drafts are always re-checked
suppresswarnings:                   # OPTIONAL - silences specific warnings
  - skip_whitespaces_at_end
---

Preview text shown on the index page.

<!--more-->

Rest of the posting body in standard Markdown.
` + "```" + `

## Rules

1. **YAML frontmatter is mandatory.** The ` + "`" + `---` + "`" + ` fences must be the first
   thing in the file (no leading blank lines).
2. **The preview separator** ` + "`" + `<!--more-->` + "`" + ` splits the preview from the body.
   No image may appear above it.
3. **Tags and categories** are lowercase. Allowed characters are a-z, 0-9,
   the German umlauts, and ` + "`" + `- . _` + "`" + `.
4. **Headlines** start at level two (` + "`" + `##` + "`" + `); deeper levels trigger warnings.
5. **No trailing whitespace** except in quote lines starting with ` + "`" + `>` + "`" + `.
6. **Fenced code blocks** open with a language (` + "```" + `bash) and close bare (` + "```" + `).
7. **Headlines, lists, and code blocks** are followed by an empty line.
8. **Suppressing warnings:** every warning names a token for the
   ` + "`" + `suppresswarnings` + "`" + ` frontmatter list. Use it only when the finding is a
   false positive.

## Checking

- ` + "`" + `lint_content` + "`" + ` checks content passed directly.
- ` + "`" + `lint_file` + "`" + ` checks a posting on disk without modifying it.
- Both return diagnostics plus the rewritten content when a fix applies.
`
