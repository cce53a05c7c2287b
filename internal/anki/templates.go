package anki

const frontTemplate = `<div class="front">
<div class="source">{{Front}}</div>
<div class="languages">{{Languages}}</div>
</div>`

const backTemplate = `{{FrontSide}}

<hr id="answer">

<div class="back">
<div class="target">{{Back}}</div>
{{#Audio}}
<div class="audio">{{Audio}}</div>
{{/Audio}}
</div>`

const reverseFrontTemplate = `<div class="front">
<div class="target">{{Back}}</div>
{{#Audio}}
<div class="audio">{{Audio}}</div>
{{/Audio}}
</div>`

const reverseBackTemplate = `{{FrontSide}}

<hr id="answer">

<div class="back">
<div class="source">{{Front}}</div>
<div class="languages">{{Languages}}</div>
</div>`

const cardCSS = `.card {
  font-family: Arial, sans-serif;
  font-size: 20px;
  text-align: center;
  color: #333;
  background-color: white;
}

.front, .back {
  padding: 20px;
}

.source {
  font-size: 28px;
  font-weight: bold;
  color: #2c3e50;
  margin: 20px 0;
}

.target {
  font-size: 32px;
  font-weight: bold;
  color: #16a085;
  margin: 20px 0;
}

.languages {
  font-size: 14px;
  color: #95a5a6;
  text-transform: capitalize;
}

.audio {
  margin: 15px 0;
}

hr#answer {
  margin: 30px 0;
  border: 0;
  border-top: 1px solid #ecf0f1;
}`
