package a2a

type Capabilities struct {
	Streaming bool `json:"streaming"`
}

type Authentication struct {
	Schemes []string `json:"schemes"`
}

type Skill struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
	InputModes  []string `json:"inputModes"`
	OutputModes []string `json:"outputModes"`
	Examples    []string `json:"examples"`
}

// Card is the capability descriptor served at /.well-known/agent.json.
type Card struct {
	Name               string         `json:"name"`
	Description        string         `json:"description"`
	URL                string         `json:"url"`
	Version            string         `json:"version"`
	DefaultInputModes  []string       `json:"defaultInputModes"`
	DefaultOutputModes []string       `json:"defaultOutputModes"`
	Capabilities       Capabilities   `json:"capabilities"`
	Authentication     Authentication `json:"authentication"`
	Skills             []Skill        `json:"skills"`
}

func baseCard(url string) Card {
	return Card{
		URL:                url,
		Version:            "1.0.0",
		DefaultInputModes:  []string{"text"},
		DefaultOutputModes: []string{"text"},
		Capabilities:       Capabilities{Streaming: false},
		Authentication:     Authentication{Schemes: []string{"none"}},
	}
}

func EchoCard(url string) Card {
	c := baseCard(url)
	c.Name = "EchoAgent"
	c.Description = "A task-exchange agent that echoes your messages."
	c.Skills = []Skill{{
		ID:          "echo_message",
		Name:        "Echo Message",
		Description: "Echoes the received message.",
		Tags:        []string{"echo", "reply"},
		InputModes:  []string{"text"},
		OutputModes: []string{"text"},
		Examples:    []string{"echo hello", "repeat after me"},
	}}
	return c
}

func ReflectCard(url string) Card {
	c := baseCard(url)
	c.Name = "LinkedInPostAgent"
	c.Description = "Writes a LinkedIn post, critiques it and returns the revised version."
	c.Skills = []Skill{{
		ID:          "write_post",
		Name:        "Write LinkedIn Post",
		Description: "Drafts a post for the requested topic and revises it once after critique.",
		Tags:        []string{"linkedin", "writing", "reflection"},
		InputModes:  []string{"text"},
		OutputModes: []string{"text"},
		Examples:    []string{"Write a post about Rust ownership"},
	}}
	return c
}
