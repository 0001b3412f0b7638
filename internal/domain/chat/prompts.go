package chat

import "fmt"

const plainSystemPrompt = `You are an intelligent AI creative assistant for EUREKA AI Creative Studio. You can:

1. Generate images using DALL-E 3 when users request them
2. Analyze creative content and provide insights
3. Help users with creative projects and ideas
4. Engage in natural conversation about art, design, and creativity

When users want to generate images, provide detailed, creative prompts and then call the image generation API.
When analyzing content, provide valuable insights and creative feedback.
Always be helpful, creative, and professional.`

const referenceSystemPrompt = `You are an intelligent AI creative assistant for EUREKA AI Creative Studio.

IMPORTANT: The user has uploaded a reference image that has been analyzed by Gemini AI. Here's the analysis:

%s

Based on this analysis, provide creative insights, suggestions, and help the user with their creative project. Be specific about what you see in the image and how it relates to their request.`

func plainPrompt(message string) string {
	return plainSystemPrompt + "\n\nUser message: " + message
}

func referencePrompt(analysis, message string) string {
	return fmt.Sprintf(referenceSystemPrompt, analysis) + "\n\nUser message: " + message
}

// analysisFallbackPrompt carries the analysis failure reason verbatim so the
// model can tell the user what went wrong.
func analysisFallbackPrompt(reason, message string) string {
	return fmt.Sprintf(
		"I'm sorry, I encountered an error while analyzing your reference image: %s. Please try again or ask me a question without the image. User message: %s",
		reason, message,
	)
}

func narrationPrompt(imagePrompt string) string {
	return fmt.Sprintf(
		`I've generated an image based on your request: %q. Please provide a creative description of what was generated and any suggestions for improvements.`,
		imagePrompt,
	)
}
