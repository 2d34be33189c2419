package awesomesauce

const (
	testLogin    = "test-api"
	testPassword = "c271ee995dd79671dc19f3ba4bb435e26bee68b0e831b7e9e4ae858c1584e0a33bc93b8d9ca3cedc"
)

const successfulPurchaseResponse = `
      <response>
        <merchant>test-api</merchant>
        <success>true</success>
        <code></code>
        <err></err>
        <id>47654</id>
      </response>
`

const failedPurchaseResponse = `
      <response>
        <merchant>test-api</merchant>
        <success>false</success>
        <code>03</code>
        <err>number</err>
        <id>47655</id>
      </response>
`

const successfulAuthorizeResponse = `
      <response>
        <merchant>test-api</merchant>
        <success>true</success>
        <code></code>
        <err></err>
        <id>47993</id>
      </response>
`

const failedAuthorizeResponse = `
      <response>
        <merchant>test-api</merchant>
        <success>false</success>
        <code>03</code>
        <err>number</err>
        <id>48095</id>
      </response>
`

const successfulCaptureResponse = `
      <response>
        <merchant>test-api</merchant>
        <success>true</success>
        <code></code>
        <err></err>
        <id>47994</id>
      </response>
`

const successfulVoidResponse = successfulCaptureResponse

const unknownCodeResponse = `
      <response>
        <merchant>test-api</merchant>
        <success>false</success>
        <code>99</code>
        <err>number</err>
        <id>48100</id>
      </response>
`

const oopsResponse = `
      <h1>Oops</h1><p class="lead">Wow, it would be so handy if we told you what went wrong here.</p>
`
