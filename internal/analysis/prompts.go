package analysis

import (
	"marketlens/internal/model"
	"marketlens/pkg/llm"
	"strings"
)

const analystSystemPrompt = `You are a senior investment research analyst covering global equities, rates and FX. Answer in plain prose. Never invent prices or figures that are not in the input.`

const impactPrompt = `As a senior investment research analyst, analyze this news item:
Title: "%s"
Summary: "%s"
Portfolio: %s

Requirements:
- Separate core facts from speculation
- Assess the macro, industry and single-stock impact
- Identify where market participants disagree
- Finish with concrete recommendations for the portfolio`

const timelinePrompt = `Build a chronological timeline of the key events for: %s

Rules:
- Return 5 to 8 events ordered from oldest to newest
- "date" is a month in YYYY-MM format
- "description" starts with a one-sentence summary, followed by 2-3 bullet points on separate lines, each starting with "•"
- "significance" says in one sentence why the event mattered for the stock
- "url" is a plausible news source URL for the event

Return JSON.`

const analogyPrompt = `Task: for the news item "%s", run a 5-year deep concept retrospective.

Steps:
1. Extract 3-4 core intelligence concepts.
2. For each concept, trace the major events of the past 5 years, aggregated by month.
3. Description format: the first sentence is a concise summary, followed by 2-3 bullet points separated by newlines, each starting with "•".
4. Generate a realistic news source URL for every event.
5. Generate the public attention / discussion volume trend of each concept over the past 5 years (0-100).

Return JSON.`

const factorPrompt = `Analyze the core factors in "%s". Identify how the signal is amplified or weakened for upstream suppliers, downstream customers and competitors.

Node groups: stock, sector, event, competitor, supplier, customer, market-trend, regulator.
Links reference nodes by their label. "strength" is between 0 and 1.

Return JSON.`

const socialPrompt = `Analyze the social media sentiment around %s. Extract the most popular opinions and the points of controversy.

"bullishPercent" and "buzzScore" are 0-100. Comment "platform" is one of X, Reddit, StockTwits, WeChat and "sentiment" is one of positive, negative, neutral.

Return JSON.`

const userHistoryPrompt = `Investigate the historical prediction accuracy of user %s on %s.

Use the same description format as before: a one-sentence summary followed by bullet points starting with "•". "trustScore" is 0-100.

Return JSON.`

const opinionPrompt = `Analyze the supporting and opposing clusters around the opinion "%s".

Node groups: KOL-Opinion, Supportive-Post, Opposing-Post, stock, event.
Links reference nodes by their label. "strength" is between 0 and 1.

Return JSON.`

const classifyPromptVersion = "v1"
const classifySystemPrompt = `You are a financial news desk editor. You classify incoming headlines for a portfolio dashboard.

Rules:
1. category is one of: Macro (central banks, rates, inflation, GDP), Industry (sector-wide developments), Micro (a single company), Sentiment (market mood, flows, social buzz)
2. sentiment is the likely direction for the related stocks: positive, negative or neutral
3. impactScore is 0-100, how much the item could move the related stocks
4. reliability is 0-100, how trustworthy the source and the claims are
5. isFact is true for confirmed events, false for rumors, forecasts and opinion
6. assetImpact gives a short direction note (e.g. "Bullish", "Bearish", "USD Strength") for equity, bond and fx`

func timelineEventSchema() *llm.Schema {
	return llm.Object(
		llm.Prop("date", llm.String()),
		llm.Prop("title", llm.String()),
		llm.Prop("description", llm.String()),
		llm.Prop("significance", llm.String()),
		llm.Prop("url", llm.String()),
	)
}

func timelineSchema() *llm.Schema {
	return llm.ArrayOf(timelineEventSchema().Require("date", "title", "description", "significance"))
}

func conceptSchema() *llm.Schema {
	return llm.ArrayOf(llm.Object(
		llm.Prop("concept", llm.String()),
		llm.Prop("description", llm.String()),
		llm.Prop("history", llm.ArrayOf(timelineEventSchema())),
		llm.Prop("trends", llm.ArrayOf(llm.Object(
			llm.Prop("date", llm.String()),
			llm.Prop("volume", llm.Number()),
			llm.Prop("sentiment", llm.Number()),
		))),
	).Require("concept", "description", "history", "trends"))
}

// graphSchema hints the node groups instead of enumerating them, so a reply
// with an unlisted group still decodes.
func graphSchema() *llm.Schema {
	return llm.Object(
		llm.Prop("nodes", llm.ArrayOf(llm.Object(
			llm.Prop("id", llm.String()),
			llm.Prop("label", llm.String()),
			llm.Prop("group", llm.String().Describe("One of: "+strings.Join(model.NodeGroups, ", "))),
		))),
		llm.Prop("links", llm.ArrayOf(llm.Object(
			llm.Prop("source", llm.String().Describe("label of the source node")),
			llm.Prop("target", llm.String().Describe("label of the target node")),
			llm.Prop("strength", llm.Number().Describe("0 to 1")),
			llm.Prop("reason", llm.String()),
		))),
	)
}

func socialSignalSchema() *llm.Schema {
	return llm.Object(
		llm.Prop("symbol", llm.String()),
		llm.Prop("bullishPercent", llm.Number()),
		llm.Prop("buzzScore", llm.Number()),
		llm.Prop("topComments", llm.ArrayOf(llm.Object(
			llm.Prop("id", llm.String()),
			llm.Prop("author", llm.String()),
			llm.Prop("content", llm.String()),
			llm.Prop("sentiment", llm.String()),
			llm.Prop("platform", llm.String()),
			llm.Prop("likes", llm.Number()),
			llm.Prop("timestamp", llm.String()),
			llm.Prop("url", llm.String()),
		))),
	)
}

func userHistorySchema() *llm.Schema {
	return llm.Object(
		llm.Prop("author", llm.String()),
		llm.Prop("platform", llm.String()),
		llm.Prop("trustScore", llm.Number()),
		llm.Prop("trustSummary", llm.String()),
		llm.Prop("pastPosts", llm.ArrayOf(timelineEventSchema())),
	)
}

func classificationSchema() *llm.Schema {
	return llm.Object(
		llm.Prop("category", llm.Enum(model.CategoryMacro, model.CategoryIndustry, model.CategoryMicro, model.CategorySentiment)),
		llm.Prop("sentiment", llm.Enum(model.SentimentPositive, model.SentimentNegative, model.SentimentNeutral)),
		llm.Prop("impactScore", llm.Integer()),
		llm.Prop("reliability", llm.Integer()),
		llm.Prop("isFact", llm.Boolean()),
		llm.Prop("assetImpact", llm.Object(
			llm.Prop("equity", llm.String()),
			llm.Prop("bond", llm.String()),
			llm.Prop("fx", llm.String()),
		)),
	).Require("category", "sentiment", "impactScore", "reliability", "isFact")
}
