package agent

const (
	// NoContextNotice is appended as a visible assistant message when retrieval comes back empty.
	NoContextNotice = "I could not find any relevant information in your uploaded documents for that query. I will answer from my general knowledge."

	NotInDocumentsAnswer = "I could not find the answer in the provided documents."

	GenerationFailedMessage = "I'm sorry, I ran into a problem while preparing an answer. Please try again in a moment."
	NoCSVFileMessage        = "No CSV file found for this session."
	CSVQueryFailedMessage   = "Sorry, an error occurred while querying the CSV file."
)

const systemPrompt = `You are the Okada & Company assistant, helping clients with commercial real estate in New York City.
Be concise, accurate and friendly. When you are unsure, say so instead of guessing.`

const contextPrompt = `Answer the user's question using ONLY the context below.
If the context does not contain the answer, respond with exactly: "` + NotInDocumentsAnswer + `"
When you use a fragment, mention its source.

CONTEXT:
%s

QUESTION:
%s`

const csvIntentPrompt = `Decide how to answer a question about a CSV file.
Reply "analytical" if it needs calculation, aggregation, filtering, sorting or counting over the rows.
Reply "semantic" if it asks about the meaning or content of specific entries.
Reply with only one word: analytical or semantic.

QUESTION: %s`

const csvRephrasePrompt = `A user asked: %s
A database query returned:
%s

Answer the user in one short, polite sentence based only on that result. Do not show tables.`
