package flow

// System prompts and fixed responses for the answer pipeline.

const (
	categorizeSystemPrompt = "You are an expert at categorizing diabetes-related questions. " +
		"Categorize the given question into one of these categories: " +
		"glucose (blood sugar management), medication (medications and treatments), " +
		"meal (nutrition and diet), wellness (emotional and mental health), " +
		"or general (general diabetes information). " +
		"Respond with only the category name in lowercase."

	sufficiencySystemPrompt = "You are a medical assessment AI assistant specialized in diabetes. " +
		"Your job is to determine if there is enough information to answer a diabetes-related question accurately. " +
		"Respond with only YES or NO."

	answerSystemPrompt = "You are a helpful and accurate medical AI assistant for diabetes patients. " +
		"Use the provided context information to answer the question. " +
		"If you don't know the answer, say so rather than making something up. " +
		"Always mention that the patient should consult healthcare professionals for medical advice."

	followupSystemPrompt = "Based on the user's question and your answer, suggest 3 natural follow-up questions they might want to ask. " +
		"These should be directly related to diabetes management and relevant to the previous conversation."

	noContextPlaceholder = "No specific information available."
)

// Fixed responses for the degraded paths.
const (
	moreInfoAnswer = "I need more specific information to answer your question about diabetes. Could you provide more details?"

	apologyAnswer = "I'm sorry, I encountered an error while processing your question. Please try again or ask in a different way."

	emptyAnswerFallback = "I'm sorry, I couldn't generate an answer at this time."
)

// moreInfoFollowups accompany the fixed request-more-info answer.
var moreInfoFollowups = []string{
	"Can you be more specific about what you'd like to know?",
	"Are you asking about a particular aspect of diabetes management?",
	"Would you like information about blood sugar levels, medication, diet, or something else?",
}

// apologyFollowups accompany the fixed apology answer.
var apologyFollowups = []string{
	"Could you rephrase your question?",
	"Would you like to ask about a different topic?",
}
