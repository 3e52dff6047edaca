package vect

import (
	"encoding/json"
	"log"

	"gopkg.in/yaml.v3"
)

func (v Vect) MarshalJSON() ([]byte, error) {
	return json.Marshal(&[2]Float{v.X, v.Y})
}

//accepts both [x, y] and {"X": x, "Y": y}.
func (v *Vect) UnmarshalJSON(data []byte) error {
	vectData := [2]Float{}

	//try unmarshalling array form
	err := json.Unmarshal(data, &vectData)
	if err != nil {
		//try other form
		vectData := struct {
			X, Y Float
		}{}

		err := json.Unmarshal(data, &vectData)

		if err != nil {
			log.Printf("Error decoding Vect")
			return err
		}
		v.X = vectData.X
		v.Y = vectData.Y
		return nil
	}

	v.X = vectData[0]
	v.Y = vectData[1]

	return nil
}

func (v Vect) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.SequenceNode, Style: yaml.FlowStyle}
	if err := node.Encode([]Float{v.X, v.Y}); err != nil {
		return nil, err
	}
	node.Style = yaml.FlowStyle
	return node, nil
}

//accepts both [x, y] and {x: .., y: ..}.
func (v *Vect) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.SequenceNode {
		var pair []Float
		if err := value.Decode(&pair); err != nil {
			return err
		}
		if len(pair) != 2 {
			return &yaml.TypeError{Errors: []string{"vect: expected a sequence of 2 numbers"}}
		}
		v.X, v.Y = pair[0], pair[1]
		return nil
	}

	vectData := struct {
		X Float `yaml:"x"`
		Y Float `yaml:"y"`
	}{}
	if err := value.Decode(&vectData); err != nil {
		log.Printf("Error decoding Vect")
		return err
	}
	v.X, v.Y = vectData.X, vectData.Y
	return nil
}
