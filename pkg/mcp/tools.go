package mcp

import "github.com/mark3labs/mcp-go/mcp"

func listCategoriesTool() mcp.Tool {
	return mcp.NewTool(
		"list_categories",
		mcp.WithDescription("List the translation categories in the catalog with their message counts."),
	)
}

func getMessagesTool() mcp.Tool {
	return mcp.NewTool(
		"get_messages",
		mcp.WithDescription("Return the message ids recorded under one category, in first-seen order."),
		mcp.WithString("category",
			mcp.Required(),
			mcp.Description("Category name, e.g. 'default' or 'app'.")),
	)
}

func listSkippedTool() mcp.Tool {
	return mcp.NewTool(
		"list_skipped",
		mcp.WithDescription("List the translation call sites that could not be resolved to a literal message id and need manual review. Each entry carries file, line and the reconstructed call source."),
	)
}

func extractSourceTool() mcp.Tool {
	return mcp.NewTool(
		"extract_source",
		mcp.WithDescription("Run message extraction over a PHP source snippet and return the extracted category to message-id mapping plus any skipped call sites. Does not modify the catalog."),
		mcp.WithString("source",
			mcp.Required(),
			mcp.Description("PHP source text. An opening tag is added when missing.")),
		mcp.WithString("pattern",
			mcp.Description("Translator call prefix to match, e.g. '$this->translate' or 'Lang::get'. Defaults to the server's configured pattern.")),
		mcp.WithString("default_category",
			mcp.Description("Category used for calls without a literal category argument. Defaults to the server's configured category.")),
	)
}
