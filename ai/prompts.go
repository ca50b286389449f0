package ai

import "fmt"

// Prompt pairs for each assistant operation. The wording follows the
// editor's original prompt set; only the completion prompt is
// latency-sensitive, the rest favor thoroughness.

const completionSystem = `You are an expert coding assistant integrated into a code editor.
Your role is to provide inline code completions that are:
- Contextually relevant to the current code
- Following the existing code style and patterns
- Syntactically correct
- Concise and practical

IMPORTANT: Only provide the code completion, no explanations or markdown.
Complete the code naturally from where the user left off.`

func completionMessages(fileName, language, before, after, currentLine string) []Message {
	user := fmt.Sprintf(`File: %s
Language: %s

Code before cursor:
%s

Code after cursor:
%s

Current line: %s

Provide a natural code completion from this point. Return only the completion code.`,
		fileName, language, before, after, currentLine)
	return []Message{
		{Role: "system", Content: completionSystem},
		{Role: "user", Content: user},
	}
}

const explanationSystem = `You are an expert programming teacher and code analyst.
Explain code in a clear, educational manner that helps developers understand:
- What the code does
- How it works
- Key concepts and patterns used
- Potential improvements or concerns

Be concise but thorough.`

func explanationMessages(fileName, language, code string) []Message {
	user := fmt.Sprintf("File: %s\nLanguage: %s\n\nCode to explain:\n```%s\n%s\n```\n\nProvide a clear explanation of this code.",
		fileName, language, language, code)
	return []Message{
		{Role: "system", Content: explanationSystem},
		{Role: "user", Content: user},
	}
}

const refactoringSystem = `You are an expert code reviewer and refactoring specialist.
Analyze code and suggest improvements for:
- Code readability and maintainability
- Performance optimization
- Best practices adherence
- Design patterns
- Potential bugs or issues

Provide specific, actionable suggestions.`

func refactoringMessages(fileName, language, code string) []Message {
	user := fmt.Sprintf("File: %s\nLanguage: %s\n\nCode to refactor:\n```%s\n%s\n```\n\nSuggest refactoring improvements.",
		fileName, language, language, code)
	return []Message{
		{Role: "system", Content: refactoringSystem},
		{Role: "user", Content: user},
	}
}

const bugDetectionSystem = `You are an expert debugger and code analyst.
Detect bugs, logic errors, and potential runtime failures. For each issue found:
- Describe the problem
- Explain why it is a problem
- Suggest a concrete fix

If an error message is provided, focus the analysis on its cause.`

func bugDetectionMessages(fileName, language, code, errMessage string) []Message {
	user := fmt.Sprintf("File: %s\nLanguage: %s\n\nCode to analyze:\n```%s\n%s\n```\n\nError message:\n%s\n\nDetect bugs and suggest fixes.",
		fileName, language, language, code, errMessage)
	return []Message{
		{Role: "system", Content: bugDetectionSystem},
		{Role: "user", Content: user},
	}
}

const generationSystem = `You are an expert code generator.
Generate clean, efficient, and well-documented code based on user requirements.

Guidelines:
- Follow best practices and design patterns
- Include proper error handling
- Add helpful comments
- Use clear variable names
- Make code maintainable

Return ONLY the code implementation, no markdown code blocks.`

func generationMessages(fileName, language, context, requirement string) []Message {
	user := fmt.Sprintf("File: %s\nLanguage: %s\n\nContext (surrounding code):\n%s\n\nRequirement/TODO:\n%s\n\nGenerate the code implementation:",
		fileName, language, context, requirement)
	return []Message{
		{Role: "system", Content: generationSystem},
		{Role: "user", Content: user},
	}
}

const chatSystem = `You are a helpful AI coding assistant inside a code editor.
Answer questions about the user's code clearly and practically. Use the
provided file context when it is relevant, and include code snippets in
markdown blocks when they help.`

func chatMessages(fileName, language, fileContext, question string) []Message {
	user := fmt.Sprintf("File: %s\nLanguage: %s\n\nFile context:\n%s\n\nQuestion: %s",
		fileName, language, fileContext, question)
	return []Message{
		{Role: "system", Content: chatSystem},
		{Role: "user", Content: user},
	}
}
