package prompts

// Template files that override the built-ins when present in the prompt directory.
var TemplateFiles = map[string]string{
	"prompt.txt": ReactID,
	"merge.txt":  MergeID,
	"plugin.txt": PluginID,
}

const reactTemplate = `Answer the following questions as best you can. You have access to the following tools:

${tools}

Use the following format:

Question: the input question you must answer
Thought: you should always think about what to do
Action: the action to take, should be one of [${toolList}]
Action Input: the input to the action
Observation: the result of the action
... (this Thought/Action/Action Input/Observation can repeat N times)
Thought: I now know the final answer
Final Answer: the final answer to the original input question

Always reply in ${language}. Only call a tool when it is needed. If a tool returns an error, try
another tool or another input before giving up. Never make up an Observation.

Begin!

Question: ${question}
Thought:`

const mergeTemplate = `Given the following conversation and a follow up question, rephrase the follow up
question to be a standalone question. If the follow up question does not relate to the conversation,
return it unchanged.

Chat History:
${history}
Follow Up Input: ${question}
Standalone question:`

const pluginTemplate = `I have just installed a new API plugin. Its OpenAPI definition follows. From now on,
when a question can be answered by this API, use the apicall tool. Build the URL from the server
URL and the operation's path, replace any templated path parameters, and add query parameters as
needed. Put request headers after a # sign as a JSON object. Briefly summarise what the API can do.`

// RegisterBuiltins adds the built-in templates to r.
func RegisterBuiltins(r *PromptRegistry) {
	r.Register(&Prompt{
		ID:          ReactID,
		Version:     PromptV1,
		Content:     reactTemplate,
		Description: "ReAct question answering with tools",
		Tags:        []string{"react", "tools"},
	})
	r.Register(&Prompt{
		ID:          MergeID,
		Version:     PromptV1,
		Content:     mergeTemplate,
		Description: "Rewrites a follow up question using the chat history",
		Tags:        []string{"history"},
	})
	r.Register(&Prompt{
		ID:          PluginID,
		Version:     PromptV1,
		Content:     pluginTemplate,
		Description: "Introduces an installed OpenAPI plugin",
		Tags:        []string{"plugin"},
	})
}
